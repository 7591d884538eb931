// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package votes implements a checkpointed voting-power ledger: every change
// to an account's power is recorded together with the block it happened in,
// so past power can be looked up for proposal snapshots.
package votes

import (
	"errors"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	ErrInsufficientVotes = errors.New("insufficient voting power")
	ErrSupplyOverflow    = errors.New("total supply overflow")
	ErrOutOfOrder        = errors.New("checkpoint older than the latest one")
)

// Checkpoint is the voting power of an account from a block onwards.
type Checkpoint struct {
	Block uint64
	Votes *uint256.Int
}

type history []Checkpoint

// at returns the value of the last checkpoint at or before block.
func (h history) at(block uint64) *uint256.Int {
	i := sort.Search(len(h), func(i int) bool { return h[i].Block > block })
	if i == 0 {
		return new(uint256.Int)
	}
	return h[i-1].Votes.Clone()
}

func (h history) latest() *uint256.Int {
	if len(h) == 0 {
		return new(uint256.Int)
	}
	return h[len(h)-1].Votes.Clone()
}

// push records v at block, folding it into the last checkpoint if it was
// written in the same block.
func (h history) push(block uint64, v *uint256.Int) (history, error) {
	if n := len(h); n > 0 {
		last := h[n-1].Block
		if block < last {
			return h, ErrOutOfOrder
		}
		if block == last {
			h[n-1].Votes = v
			return h, nil
		}
	}
	return append(h, Checkpoint{Block: block, Votes: v}), nil
}

// Ledger tracks voting power per account and the total supply over time.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[common.Address]history
	supply   history
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[common.Address]history),
	}
}

// Mint adds voting power to account at block.
func (l *Ledger) Mint(account common.Address, amount *uint256.Int, block uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(l.supply.latest(), amount)
	if overflow {
		return ErrSupplyOverflow
	}
	balance := new(uint256.Int).Add(l.accounts[account].latest(), amount)
	return l.write(account, balance, supply, block)
}

// Burn removes voting power from account at block.
func (l *Ledger) Burn(account common.Address, amount *uint256.Int, block uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, underflow := new(uint256.Int).SubOverflow(l.accounts[account].latest(), amount)
	if underflow {
		return ErrInsufficientVotes
	}
	supply := new(uint256.Int).Sub(l.supply.latest(), amount)
	return l.write(account, balance, supply, block)
}

// Transfer moves voting power between accounts at block. Total supply is
// unchanged.
func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int, block uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBalance, underflow := new(uint256.Int).SubOverflow(l.accounts[from].latest(), amount)
	if underflow {
		return ErrInsufficientVotes
	}
	if err := l.checkOrder(block, from, to); err != nil {
		return err
	}
	l.accounts[from], _ = l.accounts[from].push(block, fromBalance)
	toBalance := new(uint256.Int).Add(l.accounts[to].latest(), amount)
	l.accounts[to], _ = l.accounts[to].push(block, toBalance)
	return nil
}

func (l *Ledger) write(account common.Address, balance, supply *uint256.Int, block uint64) error {
	if err := l.checkOrder(block, account); err != nil {
		return err
	}
	l.accounts[account], _ = l.accounts[account].push(block, balance)
	l.supply, _ = l.supply.push(block, supply)
	return nil
}

func (l *Ledger) checkOrder(block uint64, accounts ...common.Address) error {
	if n := len(l.supply); n > 0 && block < l.supply[n-1].Block {
		return ErrOutOfOrder
	}
	for _, acc := range accounts {
		if h := l.accounts[acc]; len(h) > 0 && block < h[len(h)-1].Block {
			return ErrOutOfOrder
		}
	}
	return nil
}

// GetVotes returns the current voting power of account.
func (l *Ledger) GetVotes(account common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.accounts[account].latest()
}

// GetPastVotes returns the voting power of account at the end of block.
func (l *Ledger) GetPastVotes(account common.Address, block uint64) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.accounts[account].at(block)
}

// GetPastTotalSupply returns the total voting power at the end of block.
func (l *Ledger) GetPastTotalSupply(block uint64) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.supply.at(block)
}

// Checkpoints returns a copy of the checkpoint history of account.
func (l *Ledger) Checkpoints(account common.Address) []Checkpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	h := l.accounts[account]
	out := make([]Checkpoint, len(h))
	for i, cp := range h {
		out[i] = Checkpoint{Block: cp.Block, Votes: cp.Votes.Clone()}
	}
	return out
}
