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

package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// StateDB is the subset of the state database the governor contracts persist
// into. *state.StateDB satisfies it.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash) common.Hash
	Snapshot() int
	RevertToSnapshot(revid int)
}

// Atomic runs fn and reverts every state change made through db if fn fails.
// Operations are expected to be serialized by the caller; Atomic provides
// all-or-nothing visibility, not mutual exclusion.
func Atomic(db StateDB, fn func() error) error {
	snap := db.Snapshot()
	if err := fn(); err != nil {
		db.RevertToSnapshot(snap)
		return err
	}
	return nil
}

// NamedSlot derives a root storage slot from a namespace string.
func NamedSlot(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(name))
}

// MapSlot returns the slot of key inside the mapping rooted at base, using the
// same derivation as Solidity: keccak256(pad32(key) ‖ base).
func MapSlot(key []byte, base common.Hash) common.Hash {
	return crypto.Keccak256Hash(common.LeftPadBytes(key, 32), base[:])
}

// Offset returns base+n, treating the slot as a 256-bit big-endian integer.
func Offset(base common.Hash, n uint64) common.Hash {
	var x uint256.Int
	x.SetBytes32(base[:])
	x.AddUint64(&x, n)
	return common.Hash(x.Bytes32())
}

// Contract is a typed view over the storage of a single account.
type Contract struct {
	db   StateDB
	addr common.Address
}

// NewContract creates a storage view for the account at addr.
func NewContract(db StateDB, addr common.Address) *Contract {
	return &Contract{db: db, addr: addr}
}

// Address returns the account the view reads and writes.
func (c *Contract) Address() common.Address {
	return c.addr
}

// DB returns the underlying state database.
func (c *Contract) DB() StateDB {
	return c.db
}

// Word returns the raw 32-byte value at slot.
func (c *Contract) Word(slot common.Hash) common.Hash {
	return c.db.GetState(c.addr, slot)
}

// SetWord writes a raw 32-byte value at slot.
func (c *Contract) SetWord(slot common.Hash, value common.Hash) {
	c.db.SetState(c.addr, slot, value)
}

// Uint64 reads the low 8 bytes of the word at slot.
func (c *Contract) Uint64(slot common.Hash) uint64 {
	w := c.Word(slot)
	return binary.BigEndian.Uint64(w[24:])
}

// SetUint64 stores v right-aligned at slot.
func (c *Contract) SetUint64(slot common.Hash, v uint64) {
	var w common.Hash
	binary.BigEndian.PutUint64(w[24:], v)
	c.SetWord(slot, w)
}

// Uint256 reads the word at slot as an unsigned integer.
func (c *Contract) Uint256(slot common.Hash) *uint256.Int {
	w := c.Word(slot)
	return new(uint256.Int).SetBytes32(w[:])
}

// SetUint256 stores v at slot. A nil value clears the slot.
func (c *Contract) SetUint256(slot common.Hash, v *uint256.Int) {
	if v == nil {
		c.SetWord(slot, common.Hash{})
		return
	}
	c.SetWord(slot, common.Hash(v.Bytes32()))
}

// AddressAt reads a right-aligned address from slot.
func (c *Contract) AddressAt(slot common.Hash) common.Address {
	return common.BytesToAddress(c.Word(slot).Bytes())
}

// SetAddress stores addr right-aligned at slot.
func (c *Contract) SetAddress(slot common.Hash, addr common.Address) {
	c.SetWord(slot, common.BytesToHash(addr.Bytes()))
}

// Bool reads a flag from slot.
func (c *Contract) Bool(slot common.Hash) bool {
	return c.Word(slot) != (common.Hash{})
}

// SetBool stores a flag at slot.
func (c *Contract) SetBool(slot common.Hash, v bool) {
	var w common.Hash
	if v {
		w[31] = 1
	}
	c.SetWord(slot, w)
}

// Blob reads a byte string stored with SetBlob. The slot itself holds the
// length; the data lives in consecutive words starting at keccak256(slot).
func (c *Contract) Blob(slot common.Hash) []byte {
	size := c.Uint64(slot)
	if size == 0 {
		return nil
	}
	var (
		data  = make([]byte, 0, size)
		start = crypto.Keccak256Hash(slot[:])
	)
	for i := uint64(0); uint64(len(data)) < size; i++ {
		w := c.Word(Offset(start, i))
		n := size - uint64(len(data))
		if n > common.HashLength {
			n = common.HashLength
		}
		data = append(data, w[:n]...)
	}
	return data
}

// SetBlob stores data at slot, clearing any words left over from a longer
// previous value.
func (c *Contract) SetBlob(slot common.Hash, data []byte) {
	var (
		prev  = c.Uint64(slot)
		start = crypto.Keccak256Hash(slot[:])
		words = chunks(uint64(len(data)))
	)
	for i := uint64(0); i < words; i++ {
		var w common.Hash
		copy(w[:], data[i*common.HashLength:])
		c.SetWord(Offset(start, i), w)
	}
	for i := words; i < chunks(prev); i++ {
		c.SetWord(Offset(start, i), common.Hash{})
	}
	c.SetUint64(slot, uint64(len(data)))
}

// RLP decodes the blob at slot into val. It reports false if nothing is
// stored there.
func (c *Contract) RLP(slot common.Hash, val interface{}) (bool, error) {
	blob := c.Blob(slot)
	if len(blob) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(blob, val); err != nil {
		return false, err
	}
	return true, nil
}

// SetRLP encodes val and stores it as a blob at slot.
func (c *Contract) SetRLP(slot common.Hash, val interface{}) error {
	blob, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	c.SetBlob(slot, blob)
	return nil
}

func chunks(size uint64) uint64 {
	return (size + common.HashLength - 1) / common.HashLength
}
