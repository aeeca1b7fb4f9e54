// Package vftmanager tracks the Chain-G/Chain-E token address bijection
// and the lock/mint/burn/unlock accounting that rides on top of it,
// grounded on the reference gear-programs/vft-manager's token map plus
// message tracker, as summarized by the bridging spec's TokenMap entity
// and its NoCorrespondingEthAddress/NoCorrespondingVaraAddress/
// BurnFromFailed error set. The actual VFT/ERC20 token program
// implementation stays out of scope; this package is the bridge-side
// bookkeeping that decides what a relayed message should do.
package vftmanager

import (
	"errors"
	"fmt"
)

var (
	ErrNoCorrespondingEthAddress  = errors.New("vft manager: no corresponding ethereum address")
	ErrNoCorrespondingVaraAddress = errors.New("vft manager: no corresponding vara address")
	ErrBurnFromFailed             = errors.New("vft manager: burn from account failed")
	ErrAlreadyMapped              = errors.New("vft manager: token already mapped on one side")
)

// VaraAddress and EthAddress are opaque 32/20-byte account
// identifiers; vftmanager never interprets their contents, only maps
// between them.
type VaraAddress [32]byte
type EthAddress [20]byte

// TokenMap is a bijection between Chain-G and Chain-E token addresses:
// Insert fails if either side is already present (on either side of
// any pair), and Remove drops both directions together, matching the
// spec's explicit bijection invariant.
type TokenMap struct {
	varaToEth map[VaraAddress]EthAddress
	ethToVara map[EthAddress]VaraAddress
}

// NewTokenMap returns an empty bijection.
func NewTokenMap() *TokenMap {
	return &TokenMap{
		varaToEth: make(map[VaraAddress]EthAddress),
		ethToVara: make(map[EthAddress]VaraAddress),
	}
}

// Insert adds a (vara, eth) pair, failing if either address already
// appears in the map under either direction.
func (m *TokenMap) Insert(vara VaraAddress, eth EthAddress) error {
	if _, ok := m.varaToEth[vara]; ok {
		return fmt.Errorf("%w: vara address already mapped", ErrAlreadyMapped)
	}
	if _, ok := m.ethToVara[eth]; ok {
		return fmt.Errorf("%w: eth address already mapped", ErrAlreadyMapped)
	}
	m.varaToEth[vara] = eth
	m.ethToVara[eth] = vara
	return nil
}

// Remove drops a mapping by its vara-side address, removing both
// directions together.
func (m *TokenMap) Remove(vara VaraAddress) error {
	eth, ok := m.varaToEth[vara]
	if !ok {
		return ErrNoCorrespondingEthAddress
	}
	delete(m.varaToEth, vara)
	delete(m.ethToVara, eth)
	return nil
}

// EthFor returns the Ethereum-side address mapped to vara.
func (m *TokenMap) EthFor(vara VaraAddress) (EthAddress, error) {
	eth, ok := m.varaToEth[vara]
	if !ok {
		return EthAddress{}, ErrNoCorrespondingEthAddress
	}
	return eth, nil
}

// VaraFor returns the Vara-side address mapped to eth.
func (m *TokenMap) VaraFor(eth EthAddress) (VaraAddress, error) {
	vara, ok := m.ethToVara[eth]
	if !ok {
		return VaraAddress{}, ErrNoCorrespondingVaraAddress
	}
	return vara, nil
}

// TokenLedger is the minimal balance surface lock/mint/burn/unlock
// operate on; the real VFT/ERC20 program implements it on each chain.
type TokenLedger interface {
	Lock(token VaraAddress, account VaraAddress, amount uint64) error
	Mint(token EthAddress, account EthAddress, amount uint64) error
	Burn(token EthAddress, account EthAddress, amount uint64) error
	Unlock(token VaraAddress, account VaraAddress, amount uint64) error
}

// Manager performs the bridge-side accounting for a token transfer:
// lock-then-mint on the Chain-G -> Chain-E leg, burn-then-unlock on the
// reverse leg.
type Manager struct {
	tokens  *TokenMap
	varaLedger TokenLedger
	ethLedger  TokenLedger
}

// NewManager wires a token map and per-chain ledgers into a Manager.
func NewManager(tokens *TokenMap, varaLedger, ethLedger TokenLedger) *Manager {
	return &Manager{tokens: tokens, varaLedger: varaLedger, ethLedger: ethLedger}
}

// LockAndMint locks amount of the Vara-side token and mints the
// equivalent on its mapped Ethereum-side token, failing the whole
// operation (without minting) if the lock fails.
func (m *Manager) LockAndMint(vara VaraAddress, account VaraAddress, ethAccount EthAddress, amount uint64) error {
	eth, err := m.tokens.EthFor(vara)
	if err != nil {
		return err
	}

	if err := m.varaLedger.Lock(vara, account, amount); err != nil {
		return fmt.Errorf("vft manager: lock: %w", err)
	}
	if err := m.ethLedger.Mint(eth, ethAccount, amount); err != nil {
		return fmt.Errorf("vft manager: mint: %w", err)
	}
	return nil
}

// BurnAndUnlock burns amount of the Ethereum-side token and unlocks the
// equivalent on its mapped Vara-side token. A burn failure is reported
// via ErrBurnFromFailed without attempting the unlock.
func (m *Manager) BurnAndUnlock(eth EthAddress, ethAccount EthAddress, varaAccount VaraAddress, amount uint64) error {
	vara, err := m.tokens.VaraFor(eth)
	if err != nil {
		return err
	}

	if err := m.ethLedger.Burn(eth, ethAccount, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrBurnFromFailed, err)
	}
	if err := m.varaLedger.Unlock(vara, varaAccount, amount); err != nil {
		return fmt.Errorf("vft manager: unlock: %w", err)
	}
	return nil
}
