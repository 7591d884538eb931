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

// Package engine implements a generic, action-list keyed governor: proposal
// lifecycle, voting windows, quorum and timelock integration. Vote counting is
// delegated to a pluggable governance.Counting module.
package engine

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mccoysc/governor-bravo/governance"
	"github.com/mccoysc/governor-bravo/storage"
	"github.com/mccoysc/governor-bravo/timelock"
)

// VotesSource provides checkpointed voting power.
type VotesSource interface {
	GetPastVotes(account common.Address, block uint64) *uint256.Int
	GetPastTotalSupply(block uint64) *uint256.Int
}

var coreSlot = storage.NamedSlot("governor.core")

const (
	offProposer uint64 = iota
	offVoteStart
	offVoteEnd
	offExecuted
	offCanceled
	offEta
)

// proposalCore is the lifecycle record of a proposal.
type proposalCore struct {
	proposer  common.Address
	voteStart uint64
	voteEnd   uint64
	executed  bool
	canceled  bool
	eta       uint64
}

// Governor is the base governance engine. Proposal records live in the
// storage of the governor account; queued actions live in the timelock.
type Governor struct {
	mu sync.RWMutex

	config   *Config
	contract *storage.Contract
	clock    Clock
	votes    VotesSource
	timelock *timelock.Timelock
	executor timelock.Executor
	counting governance.Counting
}

// NewGovernor creates an engine. With a nil timelock, proposals execute
// directly through executor once they succeed.
func NewGovernor(db storage.StateDB, config *Config, clock Clock, votes VotesSource, tl *timelock.Timelock, executor timelock.Executor) *Governor {
	return &Governor{
		config:   config,
		contract: storage.NewContract(db, config.Governor),
		clock:    clock,
		votes:    votes,
		timelock: tl,
		executor: executor,
	}
}

// SetCounting installs the vote counting module.
func (g *Governor) SetCounting(counting governance.Counting) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counting = counting
}

// Timelock returns the timelock the governor queues into, if any.
func (g *Governor) Timelock() *timelock.Timelock {
	return g.timelock
}

func (g *Governor) slot(id common.Hash, off uint64) common.Hash {
	return storage.Offset(storage.MapSlot(id[:], coreSlot), off)
}

func (g *Governor) load(id common.Hash) *proposalCore {
	return &proposalCore{
		proposer:  g.contract.AddressAt(g.slot(id, offProposer)),
		voteStart: g.contract.Uint64(g.slot(id, offVoteStart)),
		voteEnd:   g.contract.Uint64(g.slot(id, offVoteEnd)),
		executed:  g.contract.Bool(g.slot(id, offExecuted)),
		canceled:  g.contract.Bool(g.slot(id, offCanceled)),
		eta:       g.contract.Uint64(g.slot(id, offEta)),
	}
}

func (g *Governor) exists(id common.Hash) bool {
	return g.contract.AddressAt(g.slot(id, offProposer)) != (common.Address{})
}

func (g *Governor) HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash {
	return HashProposal(targets, values, calldatas, descriptionHash)
}

func (g *Governor) Clock() uint64 {
	return g.clock.Number()
}

func (g *Governor) ProposalThreshold() *uint256.Int {
	threshold, _ := uint256.FromBig(g.config.ProposalThreshold)
	return threshold
}

// GetVotes returns the voting power of account at a past block.
func (g *Governor) GetVotes(account common.Address, blockNumber uint64) (*uint256.Int, error) {
	if blockNumber >= g.clock.Number() {
		return nil, fmt.Errorf("%w: block %d", ErrFutureLookup, blockNumber)
	}
	return g.votes.GetPastVotes(account, blockNumber), nil
}

// Quorum returns totalSupply(block) * numerator / denominator.
func (g *Governor) Quorum(blockNumber uint64) (*uint256.Int, error) {
	if blockNumber >= g.clock.Number() {
		return nil, fmt.Errorf("%w: block %d", ErrFutureLookup, blockNumber)
	}
	supply := g.votes.GetPastTotalSupply(blockNumber)
	quorum, _ := new(uint256.Int).MulDivOverflow(supply,
		uint256.NewInt(g.config.QuorumNumerator), uint256.NewInt(g.config.QuorumDenominator))
	return quorum, nil
}

func (g *Governor) ProposalSnapshot(proposalID common.Hash) uint64 {
	return g.contract.Uint64(g.slot(proposalID, offVoteStart))
}

func (g *Governor) ProposalDeadline(proposalID common.Hash) uint64 {
	return g.contract.Uint64(g.slot(proposalID, offVoteEnd))
}

func (g *Governor) ProposalEta(proposalID common.Hash) uint64 {
	return g.contract.Uint64(g.slot(proposalID, offEta))
}

// Propose registers a new proposal. The proposer needs at least the proposal
// threshold of voting power at the previous block.
func (g *Governor) Propose(proposer common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, description string) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Number()
	if now == 0 {
		return common.Hash{}, fmt.Errorf("%w: no finalized block", ErrProposerBelowThreshold)
	}
	votes, err := g.GetVotes(proposer, now-1)
	if err != nil {
		return common.Hash{}, err
	}
	if votes.Lt(g.ProposalThreshold()) {
		return common.Hash{}, fmt.Errorf("%w: have %s, need %s", ErrProposerBelowThreshold, votes, g.ProposalThreshold())
	}
	if len(targets) != len(values) || len(targets) != len(calldatas) {
		return common.Hash{}, governance.ErrInvalidProposalLength
	}
	if len(targets) == 0 {
		return common.Hash{}, governance.ErrEmptyProposal
	}
	for _, v := range values {
		if v != nil && (v.Sign() < 0 || v.BitLen() > 256) {
			return common.Hash{}, governance.ErrInvalidValue
		}
	}

	id := HashProposal(targets, values, calldatas, governance.DescriptionHash(description))
	if g.exists(id) {
		return common.Hash{}, ErrProposalExists
	}
	snapshot := now + g.config.VotingDelay
	deadline := snapshot + g.config.VotingPeriod

	g.contract.SetAddress(g.slot(id, offProposer), proposer)
	g.contract.SetUint64(g.slot(id, offVoteStart), snapshot)
	g.contract.SetUint64(g.slot(id, offVoteEnd), deadline)

	log.Info("Proposal created", "id", id, "proposer", proposer, "actions", len(targets), "snapshot", snapshot, "deadline", deadline)
	return id, nil
}

// State returns the lifecycle status of a proposal.
func (g *Governor) State(proposalID common.Hash) (governance.ProposalState, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state(proposalID)
}

func (g *Governor) state(id common.Hash) (governance.ProposalState, error) {
	p := g.load(id)
	if p.executed {
		return governance.StateExecuted, nil
	}
	if p.canceled {
		return governance.StateCanceled, nil
	}
	if p.proposer == (common.Address{}) {
		return 0, fmt.Errorf("%w: %x", ErrUnknownProposal, id)
	}
	now := g.clock.Number()
	if p.voteStart >= now {
		return governance.StatePending, nil
	}
	if p.voteEnd >= now {
		return governance.StateActive, nil
	}
	if g.counting == nil {
		return 0, ErrNoCounting
	}
	quorum, err := g.Quorum(p.voteStart)
	if err != nil {
		return 0, err
	}
	if !g.counting.QuorumReached(id, quorum) || !g.counting.VoteSucceeded(id) {
		return governance.StateDefeated, nil
	}
	if p.eta == 0 {
		return governance.StateSucceeded, nil
	}
	if g.clock.Now() >= p.eta+g.config.GracePeriod {
		return governance.StateExpired, nil
	}
	return governance.StateQueued, nil
}

// CastVote counts the voter's weight at the snapshot through the counting
// module while the proposal is active.
func (g *Governor) CastVote(voter common.Address, proposalID common.Hash, support uint8, reason string, params []byte) (*uint256.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.state(proposalID)
	if err != nil {
		return nil, err
	}
	if st != governance.StateActive {
		return nil, fmt.Errorf("%w: proposal is %s", ErrVoteNotActive, st)
	}
	if g.counting == nil {
		return nil, ErrNoCounting
	}
	weight, err := g.GetVotes(voter, g.ProposalSnapshot(proposalID))
	if err != nil {
		return nil, err
	}
	if err := g.counting.CountVote(proposalID, voter, support, weight, params); err != nil {
		return nil, err
	}
	log.Info("Vote cast", "id", proposalID, "voter", voter, "support", governance.VoteType(support), "weight", weight, "reason", reason)
	return weight, nil
}

// Queue schedules every action of a succeeded proposal in the timelock.
func (g *Governor) Queue(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := HashProposal(targets, values, calldatas, descriptionHash)
	st, err := g.state(id)
	if err != nil {
		return common.Hash{}, err
	}
	if st != governance.StateSucceeded {
		return common.Hash{}, fmt.Errorf("%w: proposal is %s", ErrProposalNotSuccessful, st)
	}
	if g.timelock == nil {
		return id, nil
	}
	eta := g.clock.Now() + g.timelock.Delay()
	err = storage.Atomic(g.contract.DB(), func() error {
		for i, target := range targets {
			if g.timelock.QueuedTransactions(timelock.TxHash(target, values[i], "", calldatas[i], eta)) {
				return ErrActionAlreadyQueued
			}
			if _, err := g.timelock.QueueTransaction(target, values[i], "", calldatas[i], eta); err != nil {
				return err
			}
		}
		g.contract.SetUint64(g.slot(id, offEta), eta)
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}
	log.Info("Proposal queued", "id", id, "eta", eta)
	return id, nil
}

// Execute runs every action of a succeeded proposal. With a timelock the
// proposal must have been queued and its eta reached.
func (g *Governor) Execute(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := HashProposal(targets, values, calldatas, descriptionHash)
	st, err := g.state(id)
	if err != nil {
		return common.Hash{}, err
	}
	if st != governance.StateSucceeded && st != governance.StateQueued {
		return common.Hash{}, fmt.Errorf("%w: proposal is %s", ErrProposalNotSuccessful, st)
	}
	eta := g.ProposalEta(id)
	if g.timelock != nil && eta == 0 {
		return common.Hash{}, ErrProposalNotQueued
	}
	err = storage.Atomic(g.contract.DB(), func() error {
		g.contract.SetBool(g.slot(id, offExecuted), true)
		for i, target := range targets {
			var err error
			if g.timelock != nil {
				_, err = g.timelock.ExecuteTransaction(target, values[i], "", calldatas[i], eta)
			} else {
				_, err = g.executor.Call(target, values[i], calldatas[i])
			}
			if err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}
	log.Info("Proposal executed", "id", id)
	return id, nil
}

// Cancel cancels a proposal that is not yet canceled, expired or executed and
// drops its queued timelock actions.
func (g *Governor) Cancel(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := HashProposal(targets, values, calldatas, descriptionHash)
	st, err := g.state(id)
	if err != nil {
		return common.Hash{}, err
	}
	switch st {
	case governance.StateCanceled, governance.StateExpired, governance.StateExecuted:
		return common.Hash{}, fmt.Errorf("%w: proposal is %s", ErrProposalNotActive, st)
	}
	g.contract.SetBool(g.slot(id, offCanceled), true)

	if eta := g.ProposalEta(id); eta != 0 && g.timelock != nil {
		for i, target := range targets {
			g.timelock.CancelTransaction(target, values[i], "", calldatas[i], eta)
		}
	}
	log.Info("Proposal canceled", "id", id, "state", st)
	return id, nil
}
