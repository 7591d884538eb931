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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// VoteAccountant records bravo votes into the proposal store.
//
// It is the vote-counting hook of the engine's casting flow and does not check
// that voting is open. The engine only invokes CountVote while the proposal is
// Active; the accountant must never be reachable by untrusted callers without
// that gate in front of it.
type VoteAccountant struct {
	store *ProposalStore
}

// NewVoteAccountant creates an accountant writing into store.
func NewVoteAccountant(store *ProposalStore) *VoteAccountant {
	return &VoteAccountant{store: store}
}

// HasVoted reports whether account has a receipt for the proposal.
func (va *VoteAccountant) HasVoted(proposalID common.Hash, account common.Address) bool {
	return va.store.Receipt(proposalID, account).HasVoted
}

// CountVote records the vote of account. The receipt keeps the weight
// narrowed to 96 bits while the tally receives the full weight. Nothing is
// written unless every check passes.
func (va *VoteAccountant) CountVote(proposalID common.Hash, account common.Address, support uint8, weight *uint256.Int, params []byte) error {
	if va.store.Receipt(proposalID, account).HasVoted {
		return ErrAlreadyVoted
	}
	vote := VoteType(support)
	if !vote.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSupport, support)
	}
	if weight == nil {
		weight = new(uint256.Int)
	}
	votes, err := narrowWeight(weight)
	if err != nil {
		return err
	}
	tally, overflow := new(uint256.Int).AddOverflow(va.store.Tally(proposalID, vote), weight)
	if overflow {
		return ErrTallyOverflow
	}

	va.store.setReceipt(proposalID, account, Receipt{HasVoted: true, Support: vote, Votes: votes})
	va.store.setTally(proposalID, vote, tally)

	log.Debug("Vote counted", "id", proposalID, "voter", account, "support", vote, "weight", weight)
	return nil
}

// narrowWeight converts a vote weight to the receipt width, rejecting values
// that do not fit instead of truncating them.
func narrowWeight(weight *uint256.Int) (*uint256.Int, error) {
	if weight.BitLen() > ReceiptVotesBits {
		return nil, fmt.Errorf("%w: %s", ErrWeightOverflow, weight.Dec())
	}
	return weight.Clone(), nil
}

// bravoCounting is the Counting module handed to the engine.
type bravoCounting struct {
	*VoteAccountant
	*PolicyEvaluator
}

func (bravoCounting) CountingMode() string {
	return CountingMode
}
