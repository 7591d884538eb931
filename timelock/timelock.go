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

// Package timelock implements a Compound-style timelock: transactions are
// queued with an execution time, become executable once that time has passed
// and go stale after a grace period.
package timelock

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/governor-bravo/storage"
)

var queuedSlot = storage.NamedSlot("timelock.queuedTransactions")

var txArguments = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("uint256")},
	{Type: mustType("string")},
	{Type: mustType("bytes")},
	{Type: mustType("uint256")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Executor performs the calls of executed transactions.
type Executor interface {
	Call(target common.Address, value *big.Int, data []byte) ([]byte, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(target common.Address, value *big.Int, data []byte) ([]byte, error)

func (f ExecutorFunc) Call(target common.Address, value *big.Int, data []byte) ([]byte, error) {
	return f(target, value, data)
}

// TimeSource provides the current timestamp in seconds.
type TimeSource interface {
	Now() uint64
}

// Timelock keeps its queue in the storage of its own account.
type Timelock struct {
	contract *storage.Contract
	delay    uint64
	grace    uint64
	clock    TimeSource
	executor Executor
}

// New creates a timelock at addr.
func New(db storage.StateDB, addr common.Address, delay, grace uint64, clock TimeSource, executor Executor) *Timelock {
	return &Timelock{
		contract: storage.NewContract(db, addr),
		delay:    delay,
		grace:    grace,
		clock:    clock,
		executor: executor,
	}
}

// Address returns the account of the timelock.
func (tl *Timelock) Address() common.Address {
	return tl.contract.Address()
}

// Delay returns the minimum time between queueing and execution.
func (tl *Timelock) Delay() uint64 {
	return tl.delay
}

// GracePeriod returns how long a transaction stays executable after its eta.
func (tl *Timelock) GracePeriod() uint64 {
	return tl.grace
}

// TxHash identifies a queued transaction:
// keccak256(abi.encode(target, value, signature, data, eta)).
func TxHash(target common.Address, value *big.Int, signature string, data []byte, eta uint64) common.Hash {
	if value == nil {
		value = new(big.Int)
	}
	enc, err := txArguments.Pack(target, value, signature, data, new(big.Int).SetUint64(eta))
	if err != nil {
		// All argument types are fixed; packing cannot fail for non-negative values.
		panic(fmt.Sprintf("timelock: failed to pack transaction: %v", err))
	}
	return crypto.Keccak256Hash(enc)
}

// QueuedTransactions reports whether the transaction is queued.
func (tl *Timelock) QueuedTransactions(hash common.Hash) bool {
	return tl.contract.Bool(storage.MapSlot(hash[:], queuedSlot))
}

// QueueTransaction schedules a call for eta.
func (tl *Timelock) QueueTransaction(target common.Address, value *big.Int, signature string, data []byte, eta uint64) (common.Hash, error) {
	if eta < tl.clock.Now()+tl.delay {
		return common.Hash{}, ErrDelayNotSatisfied
	}
	hash := TxHash(target, value, signature, data, eta)
	tl.contract.SetBool(storage.MapSlot(hash[:], queuedSlot), true)

	log.Info("Timelock transaction queued", "hash", hash, "target", target, "eta", eta)
	return hash, nil
}

// CancelTransaction removes a call from the queue.
func (tl *Timelock) CancelTransaction(target common.Address, value *big.Int, signature string, data []byte, eta uint64) common.Hash {
	hash := TxHash(target, value, signature, data, eta)
	tl.contract.SetBool(storage.MapSlot(hash[:], queuedSlot), false)

	log.Info("Timelock transaction cancelled", "hash", hash, "target", target)
	return hash
}

// ExecuteTransaction runs a queued call whose eta has passed and which is
// still within the grace period.
func (tl *Timelock) ExecuteTransaction(target common.Address, value *big.Int, signature string, data []byte, eta uint64) ([]byte, error) {
	hash := TxHash(target, value, signature, data, eta)
	if !tl.QueuedTransactions(hash) {
		return nil, ErrNotQueued
	}
	now := tl.clock.Now()
	if now < eta {
		return nil, ErrTimelockNotSurpassed
	}
	if now > eta+tl.grace {
		return nil, ErrTransactionStale
	}
	tl.contract.SetBool(storage.MapSlot(hash[:], queuedSlot), false)

	callData := data
	if signature != "" {
		callData = append(crypto.Keccak256([]byte(signature))[:4], data...)
	}
	ret, err := tl.executor.Call(target, value, callData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionReverted, err)
	}
	log.Info("Timelock transaction executed", "hash", hash, "target", target)
	return ret, nil
}
