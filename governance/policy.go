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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PolicyEvaluator holds the bravo quorum and success rules.
type PolicyEvaluator struct {
	store *ProposalStore
}

// NewPolicyEvaluator creates an evaluator reading tallies from store.
func NewPolicyEvaluator(store *ProposalStore) *PolicyEvaluator {
	return &PolicyEvaluator{store: store}
}

// QuorumReached reports whether the For tally meets quorum. Against and
// Abstain votes never count toward quorum.
func (pe *PolicyEvaluator) QuorumReached(proposalID common.Hash, quorum *uint256.Int) bool {
	return quorumReached(pe.store.Tally(proposalID, VoteFor), quorum)
}

// VoteSucceeded reports whether For strictly exceeds Against.
func (pe *PolicyEvaluator) VoteSucceeded(proposalID common.Hash) bool {
	return voteSucceeded(pe.store.Tally(proposalID, VoteFor), pe.store.Tally(proposalID, VoteAgainst))
}

func quorumReached(forVotes, quorum *uint256.Int) bool {
	if quorum == nil {
		return true
	}
	return !forVotes.Lt(quorum)
}

// Ties fail.
func voteSucceeded(forVotes, againstVotes *uint256.Int) bool {
	return forVotes.Gt(againstVotes)
}
