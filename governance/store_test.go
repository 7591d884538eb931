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

package governance

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func testActions() *Actions {
	return &Actions{
		Targets:    []common.Address{common.HexToAddress("0xa"), common.HexToAddress("0xb")},
		Values:     []*big.Int{big.NewInt(0), big.NewInt(5)},
		Signatures: []string{"transfer(address,uint256)", ""},
		Calldatas:  [][]byte{{0x01}, {0xca, 0xfe, 0xba, 0xbe}},
	}
}

func TestProposalStore_CreateOnce(t *testing.T) {
	store := newTestStore(t)
	id := common.HexToHash("0x01")
	proposer := common.HexToAddress("0x1")
	descHash := crypto.Keccak256Hash([]byte("first"))

	if store.Exists(id) {
		t.Fatal("proposal should not exist yet")
	}
	created, err := store.Create(id, proposer, testActions(), descHash)
	if err != nil || !created {
		t.Fatalf("expected creation, created=%v err=%v", created, err)
	}
	before, _ := store.Details(id)

	// A second writer must not overwrite anything
	other := &Actions{
		Targets:    []common.Address{common.HexToAddress("0xc")},
		Values:     []*big.Int{big.NewInt(9)},
		Signatures: []string{"x()"},
		Calldatas:  [][]byte{{0xff}},
	}
	created, err = store.Create(id, common.HexToAddress("0x2"), other, crypto.Keccak256Hash([]byte("second")))
	if err != nil {
		t.Fatalf("resubmission must not fail: %v", err)
	}
	if created {
		t.Fatal("resubmission must be a no-op")
	}
	after, _ := store.Details(id)
	if after.Proposer != proposer || after.DescriptionHash != descHash {
		t.Fatalf("immutable fields overwritten: %s", spew.Sdump(after))
	}
	if !actionsEqual(before.Actions, after.Actions) {
		t.Fatalf("actions overwritten:\nbefore %s\nafter %s", spew.Sdump(before.Actions), spew.Sdump(after.Actions))
	}
}

func TestProposalStore_ActionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	id := common.HexToHash("0x02")
	in := testActions()
	if _, err := store.Create(id, common.HexToAddress("0x1"), in, crypto.Keccak256Hash([]byte("d"))); err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	out, err := store.Actions(id)
	if err != nil {
		t.Fatalf("failed to load actions: %v", err)
	}
	if !actionsEqual(in, out) {
		t.Fatalf("actions mismatch: %s", spew.Sdump(out))
	}
}

func TestProposalStore_MissYieldsZeroValues(t *testing.T) {
	store := newTestStore(t)
	details, err := store.Details(common.HexToHash("0xdead"))
	if err != nil {
		t.Fatalf("lookup miss must not fail: %v", err)
	}
	if details.Proposer != (common.Address{}) || details.DescriptionHash != (common.Hash{}) {
		t.Errorf("expected zero metadata, got %s", spew.Sdump(details))
	}
	if details.Actions.Len() != 0 {
		t.Errorf("expected no actions, got %d", details.Actions.Len())
	}
	if !details.ForVotes.IsZero() || !details.AgainstVotes.IsZero() || !details.AbstainVotes.IsZero() {
		t.Error("expected zero tallies")
	}
}

func TestProposalStore_ReceiptPacking(t *testing.T) {
	store := newTestStore(t)
	id := common.HexToHash("0x03")
	voter := common.HexToAddress("0x77")

	if r := store.Receipt(id, voter); r.HasVoted || !r.Votes.IsZero() {
		t.Fatalf("expected empty receipt, got %+v", r)
	}

	maxVotes := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), ReceiptVotesBits), uint256.NewInt(1))
	store.setReceipt(id, voter, Receipt{HasVoted: true, Support: VoteAbstain, Votes: maxVotes})

	r := store.Receipt(id, voter)
	if !r.HasVoted || r.Support != VoteAbstain || !r.Votes.Eq(maxVotes) {
		t.Errorf("receipt mismatch: %+v", r)
	}
	// Receipts of other voters and proposals are independent
	if store.Receipt(id, common.HexToAddress("0x78")).HasVoted {
		t.Error("receipt leaked to another voter")
	}
	if store.Receipt(common.HexToHash("0x04"), voter).HasVoted {
		t.Error("receipt leaked to another proposal")
	}
}

func actionsEqual(a, b *Actions) bool {
	if a.Len() != b.Len() || len(a.Signatures) != len(b.Signatures) {
		return false
	}
	for i := range a.Targets {
		if a.Targets[i] != b.Targets[i] || a.Values[i].Cmp(b.Values[i]) != 0 ||
			a.Signatures[i] != b.Signatures[i] || !bytes.Equal(a.Calldatas[i], b.Calldatas[i]) {
			return false
		}
	}
	return true
}
