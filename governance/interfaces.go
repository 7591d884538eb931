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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Engine is the generic, action-list keyed governor the bravo module sits on.
// It owns the proposal lifecycle (snapshot, deadline, status, timelock) and the
// voting power source.
type Engine interface {
	// HashProposal is the canonical identity function. The bravo module keys its
	// metadata with it so lookups stay consistent with lifecycle queries.
	HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash

	// Propose registers a proposal and returns its id
	Propose(proposer common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, description string) (common.Hash, error)

	// Queue schedules a succeeded proposal in the timelock
	Queue(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error)

	// Execute runs a succeeded or queued proposal
	Execute(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error)

	// Cancel cancels a proposal that is not yet canceled, expired or executed
	Cancel(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error)

	// CastVote checks that voting is open, resolves the voter's weight at the
	// snapshot and hands it to the counting module.
	CastVote(voter common.Address, proposalID common.Hash, support uint8, reason string, params []byte) (*uint256.Int, error)

	// State returns the current status of a proposal
	State(proposalID common.Hash) (ProposalState, error)

	// ProposalSnapshot returns the block at which voting power is measured
	ProposalSnapshot(proposalID common.Hash) uint64

	// ProposalDeadline returns the last block of the voting period
	ProposalDeadline(proposalID common.Hash) uint64

	// ProposalEta returns the time at which a queued proposal becomes executable
	ProposalEta(proposalID common.Hash) uint64

	// Quorum returns the number of votes required at the given block
	Quorum(blockNumber uint64) (*uint256.Int, error)

	// ProposalThreshold returns the voting power needed to create a proposal
	ProposalThreshold() *uint256.Int

	// GetVotes returns the voting power of an account at a past block
	GetVotes(account common.Address, blockNumber uint64) (*uint256.Int, error)

	// Clock returns the current block number
	Clock() uint64
}

// Counting is the vote-counting hook an engine invokes from its own
// vote-casting flow. Implementations trust the engine to have checked that
// voting on the proposal is open.
type Counting interface {
	// CountingMode describes the counting scheme
	CountingMode() string

	// HasVoted reports whether account already voted on the proposal
	HasVoted(proposalID common.Hash, account common.Address) bool

	// CountVote records a vote of the given weight
	CountVote(proposalID common.Hash, account common.Address, support uint8, weight *uint256.Int, params []byte) error

	// QuorumReached reports whether the tally meets the quorum the engine
	// computed for the proposal's snapshot
	QuorumReached(proposalID common.Hash, quorum *uint256.Int) bool

	// VoteSucceeded reports whether the proposal won the vote
	VoteSucceeded(proposalID common.Hash) bool
}
