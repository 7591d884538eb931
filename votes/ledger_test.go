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

package votes

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kylelemons/godebug/pretty"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	alice = common.HexToAddress("0xa11ce")
	bob   = common.HexToAddress("0xb0b")
)

func TestLedger_PastVotes(t *testing.T) {
	l := NewLedger()
	if err := l.Mint(alice, uint256.NewInt(100), 5); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := l.Transfer(alice, bob, uint256.NewInt(30), 10); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if err := l.Burn(bob, uint256.NewInt(10), 20); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	tests := []struct {
		account common.Address
		block   uint64
		want    uint64
	}{
		{alice, 4, 0},
		{alice, 5, 100},
		{alice, 9, 100},
		{alice, 10, 70},
		{alice, 100, 70},
		{bob, 9, 0},
		{bob, 10, 30},
		{bob, 20, 20},
	}
	for _, tt := range tests {
		if got := l.GetPastVotes(tt.account, tt.block).Uint64(); got != tt.want {
			t.Errorf("GetPastVotes(%s, %d) = %d, want %d", tt.account.Hex(), tt.block, got, tt.want)
		}
	}

	if got := l.GetPastTotalSupply(10).Uint64(); got != 100 {
		t.Errorf("expected supply 100 at block 10, got %d", got)
	}
	if got := l.GetPastTotalSupply(20).Uint64(); got != 90 {
		t.Errorf("expected supply 90 at block 20, got %d", got)
	}
	if got := l.GetVotes(alice).Uint64(); got != 70 {
		t.Errorf("expected current votes 70, got %d", got)
	}
}

func TestLedger_SameBlockFolds(t *testing.T) {
	l := NewLedger()
	l.Mint(alice, uint256.NewInt(1), 3)
	l.Mint(alice, uint256.NewInt(2), 3)

	l.Mint(alice, uint256.NewInt(4), 7)

	want := []Checkpoint{
		{Block: 3, Votes: uint256.NewInt(3)},
		{Block: 7, Votes: uint256.NewInt(7)},
	}
	if diff := pretty.Compare(l.Checkpoints(alice), want); diff != "" {
		t.Errorf("checkpoint mismatch (-got +want):\n%s", diff)
	}
}

func TestLedger_Concurrent(t *testing.T) {
	l := NewLedger()
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				if err := l.Mint(alice, uint256.NewInt(1), 1); err != nil {
					return err
				}
				l.GetPastVotes(alice, 1)
				l.GetPastTotalSupply(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent mint failed: %v", err)
	}
	if got := l.GetPastVotes(alice, 1).Uint64(); got != 800 {
		t.Errorf("expected 800 votes, got %d", got)
	}
	if n := len(l.Checkpoints(alice)); n != 1 {
		t.Errorf("expected a single folded checkpoint, got %d", n)
	}
}

func TestLedger_Errors(t *testing.T) {
	l := NewLedger()
	l.Mint(alice, uint256.NewInt(10), 5)

	if err := l.Transfer(alice, bob, uint256.NewInt(11), 6); !errors.Is(err, ErrInsufficientVotes) {
		t.Errorf("expected ErrInsufficientVotes, got %v", err)
	}
	if err := l.Burn(bob, uint256.NewInt(1), 6); !errors.Is(err, ErrInsufficientVotes) {
		t.Errorf("expected ErrInsufficientVotes, got %v", err)
	}
	if err := l.Mint(bob, uint256.NewInt(1), 4); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
	if err := l.Mint(bob, new(uint256.Int).SetAllOne(), 6); !errors.Is(err, ErrSupplyOverflow) {
		t.Errorf("expected ErrSupplyOverflow, got %v", err)
	}
	if got := l.GetVotes(alice).Uint64(); got != 10 {
		t.Errorf("failed operations must not change balances, got %d", got)
	}
}
