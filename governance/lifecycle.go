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

// Proposals returns the flat legacy view of a proposal. Timing and status
// come from the engine; proposer and tallies from the bravo store. The
// canceled and executed flags are derived from the engine status.
func (g *GovernorBravo) Proposals(proposalID common.Hash) (*ProposalView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, err := g.engine.State(proposalID)
	if err != nil {
		return nil, err
	}
	return &ProposalView{
		ID:           proposalID,
		Proposer:     g.store.Proposer(proposalID),
		Eta:          g.engine.ProposalEta(proposalID),
		StartBlock:   g.engine.ProposalSnapshot(proposalID),
		EndBlock:     g.engine.ProposalDeadline(proposalID),
		ForVotes:     g.store.Tally(proposalID, VoteFor),
		AgainstVotes: g.store.Tally(proposalID, VoteAgainst),
		AbstainVotes: g.store.Tally(proposalID, VoteAbstain),
		Canceled:     state == StateCanceled,
		Executed:     state == StateExecuted,
	}, nil
}

// GetActions returns the stored actions of a proposal, signatures included.
func (g *GovernorBravo) GetActions(proposalID common.Hash) (*Actions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.store.Actions(proposalID)
}

// GetReceipt returns the vote receipt of voter for a proposal.
func (g *GovernorBravo) GetReceipt(proposalID common.Hash, voter common.Address) Receipt {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.store.Receipt(proposalID, voter)
}

// HasVoted reports whether account voted on a proposal.
func (g *GovernorBravo) HasVoted(proposalID common.Hash, account common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.accountant.HasVoted(proposalID, account)
}

// QuorumVotes returns the quorum at the last finalized block.
func (g *GovernorBravo) QuorumVotes() (*uint256.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.engine.Clock()
	if now > 0 {
		now--
	}
	return g.engine.Quorum(now)
}

// ProposalThreshold returns the voting power required to create a proposal.
func (g *GovernorBravo) ProposalThreshold() *uint256.Int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.engine.ProposalThreshold()
}

// State returns the engine status of a proposal.
func (g *GovernorBravo) State(proposalID common.Hash) (ProposalState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.engine.State(proposalID)
}

// QuorumReached reports whether the proposal's For votes meet the quorum at
// its snapshot block.
func (g *GovernorBravo) QuorumReached(proposalID common.Hash) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	quorum, err := g.engine.Quorum(g.engine.ProposalSnapshot(proposalID))
	if err != nil {
		return false, err
	}
	return g.policy.QuorumReached(proposalID, quorum), nil
}

// VoteSucceeded reports whether For votes strictly exceed Against votes.
func (g *GovernorBravo) VoteSucceeded(proposalID common.Hash) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.policy.VoteSucceeded(proposalID)
}

// CountingMode returns the fixed counting scheme descriptor.
func (g *GovernorBravo) CountingMode() string {
	return CountingMode
}
