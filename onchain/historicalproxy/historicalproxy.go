// Package historicalproxy routes a slot-scoped request to whichever
// checkpoint-light-client endpoint was active at that slot, grounded
// on the reference gear-programs/historical-proxy service: an
// ascending (slot, endpoint) list searched to find the endpoint
// covering a given slot, plus a best-effort forward/reply call.
package historicalproxy

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrNoEndpointForSlot reports that no registered endpoint covers slot,
// mirroring ProxyError::NoEndpointForSlot.
type ErrNoEndpointForSlot struct {
	Slot uint64
}

func (e *ErrNoEndpointForSlot) Error() string {
	return fmt.Sprintf("historical proxy: no endpoint for slot %d", e.Slot)
}

var (
	ErrSendFailure   = errors.New("historical proxy: send failure")
	ErrReplyFailure  = errors.New("historical proxy: reply failure")
	ErrDecodeFailure = errors.New("historical proxy: decode failure")
)

// Endpoint identifies a checkpoint-light-client instance responsible
// for slots from its registered slot onward, until superseded by a
// later endpoint.
type Endpoint struct {
	Slot    uint64
	ActorID string
}

// EndpointList is a slot-ascending registry of checkpoint-light-client
// endpoints, generalizing the reference EndpointList's Vec<(Slot,
// ActorId)> with its append-only ordering invariant and
// binary-search-nearest-below lookup.
type EndpointList struct {
	endpoints []Endpoint
}

// NewEndpointList returns an empty registry.
func NewEndpointList() *EndpointList {
	return &EndpointList{}
}

// Push appends a new endpoint. slot must be strictly greater than the
// last registered slot, matching the reference assertion.
func (l *EndpointList) Push(slot uint64, actorID string) error {
	if n := len(l.endpoints); n > 0 && l.endpoints[n-1].Slot >= slot {
		return fmt.Errorf("historical proxy: new endpoint should have slot > current (got %d after %d)", slot, l.endpoints[n-1].Slot)
	}
	l.endpoints = append(l.endpoints, Endpoint{Slot: slot, ActorID: actorID})
	return nil
}

// Endpoints returns a copy of the registered (slot, actor) pairs.
func (l *EndpointList) Endpoints() []Endpoint {
	out := make([]Endpoint, len(l.endpoints))
	copy(out, l.endpoints)
	return out
}

// EndpointFor finds the endpoint covering slot: an exact match if one
// is registered at that slot, otherwise the nearest endpoint registered
// strictly before it, mirroring EndpointList::endpoint_for's
// binary_search_by + "next - 1" fallback.
func (l *EndpointList) EndpointFor(slot uint64) (string, error) {
	i := sort.Search(len(l.endpoints), func(i int) bool {
		return l.endpoints[i].Slot >= slot
	})

	if i < len(l.endpoints) && l.endpoints[i].Slot == slot {
		return l.endpoints[i].ActorID, nil
	}
	if i == 0 {
		return "", &ErrNoEndpointForSlot{Slot: slot}
	}
	return l.endpoints[i-1].ActorID, nil
}

// Sender forwards a proxied request payload to a checkpoint-light-client
// actor and returns its reply, the routing primitive
// HistoricalProxyService.proxy wraps around gstd::msg::send_bytes_for_reply.
type Sender interface {
	SendForReply(ctx context.Context, actorID string, payload []byte) ([]byte, error)
}

// Proxy routes payload to the endpoint active at slot and returns its
// reply.
type Proxy struct {
	endpoints *EndpointList
	sender    Sender
}

// NewProxy wires an endpoint registry and sender into a Proxy.
func NewProxy(endpoints *EndpointList, sender Sender) *Proxy {
	return &Proxy{endpoints: endpoints, sender: sender}
}

// Forward looks up the endpoint for slot and forwards payload to it.
func (p *Proxy) Forward(ctx context.Context, slot uint64, payload []byte) ([]byte, error) {
	actorID, err := p.endpoints.EndpointFor(slot)
	if err != nil {
		return nil, err
	}

	reply, err := p.sender.SendForReply(ctx, actorID, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailure, err)
	}
	return reply, nil
}
