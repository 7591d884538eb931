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

package engine

import "sync"

// BlockTime is the number of seconds Mine advances the timestamp per block.
const BlockTime = 12

// Clock provides the block number used for voting and the timestamp used by
// the timelock.
type Clock interface {
	Number() uint64
	Now() uint64
}

// ManualClock is a Clock driven explicitly by tests and replays.
type ManualClock struct {
	mu     sync.RWMutex
	number uint64
	time   uint64
}

// NewManualClock creates a clock at the given block and timestamp.
func NewManualClock(number, time uint64) *ManualClock {
	return &ManualClock{number: number, time: time}
}

func (c *ManualClock) Number() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.number
}

func (c *ManualClock) Now() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

// Mine advances the clock by n blocks.
func (c *ManualClock) Mine(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.number += n
	c.time += n * BlockTime
}

// Warp moves the timestamp forward by seconds without producing blocks.
func (c *ManualClock) Warp(seconds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time += seconds
}
