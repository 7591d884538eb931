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
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mccoysc/governor-bravo/storage"
)

// GovernorBravo exposes the legacy bravo governance interface on top of a
// generic, action-list keyed engine. It keeps the legacy metadata (proposer,
// signatures, raw parameters) and the bravo vote accounting in its own
// contract storage and forwards lifecycle operations to the engine.
//
// Every state-changing call runs to completion under a single lock and is
// rolled back entirely if any step fails, engine failures included.
type GovernorBravo struct {
	mu sync.Mutex

	db         storage.StateDB
	store      *ProposalStore
	accountant *VoteAccountant
	policy     *PolicyEvaluator
	engine     Engine
}

// NewGovernorBravo creates the bravo layer for the contract at address. The
// engine must be given the module returned by Counting before votes are cast.
func NewGovernorBravo(db storage.StateDB, address common.Address, engine Engine) *GovernorBravo {
	store := NewProposalStore(storage.NewContract(db, address))
	return &GovernorBravo{
		db:         db,
		store:      store,
		accountant: NewVoteAccountant(store),
		policy:     NewPolicyEvaluator(store),
		engine:     engine,
	}
}

// Counting returns the vote-counting module the engine must invoke from its
// vote-casting flow.
func (g *GovernorBravo) Counting() Counting {
	return bravoCounting{VoteAccountant: g.accountant, PolicyEvaluator: g.policy}
}

// Engine returns the underlying lifecycle engine.
func (g *GovernorBravo) Engine() Engine {
	return g.engine
}

// ProposalID returns the id the engine assigns to the given canonical
// actions and description.
func (g *GovernorBravo) ProposalID(targets []common.Address, values []*big.Int, calldatas [][]byte, description string) common.Hash {
	return g.engine.HashProposal(targets, values, calldatas, DescriptionHash(description))
}

// Propose submits a proposal whose calldatas are already encoded. The legacy
// metadata is stored with empty signatures unless it already exists.
func (g *GovernorBravo) Propose(proposer common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, description string) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var id common.Hash
	err := storage.Atomic(g.db, func() error {
		var err error
		id, err = g.propose(proposer, targets, values, calldatas, description)
		return err
	})
	return id, err
}

// ProposeWithSignatures submits a proposal in the legacy shape: each action
// carries an optional function signature and its raw parameters.
func (g *GovernorBravo) ProposeWithSignatures(proposer common.Address, targets []common.Address, values []*big.Int, signatures []string, calldatas [][]byte, description string) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(signatures) != len(calldatas) {
		return common.Hash{}, ErrActionListLengthMismatch
	}
	actions := &Actions{
		Targets:    targets,
		Values:     values,
		Signatures: signatures,
		Calldatas:  calldatas,
	}
	var id common.Hash
	err := storage.Atomic(g.db, func() error {
		if _, err := g.storeProposal(proposer, actions, description); err != nil {
			return err
		}
		encoded, err := actions.Encode()
		if err != nil {
			return err
		}
		// The full metadata is in place, so the store inside propose is a no-op.
		id, err = g.propose(proposer, targets, values, encoded, description)
		return err
	})
	if err == nil {
		log.Info("Bravo proposal submitted", "id", id, "proposer", proposer, "actions", len(targets))
	}
	return id, err
}

func (g *GovernorBravo) propose(proposer common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, description string) (common.Hash, error) {
	actions := &Actions{
		Targets:    targets,
		Values:     values,
		Signatures: make([]string, len(calldatas)),
		Calldatas:  calldatas,
	}
	if _, err := g.storeProposal(proposer, actions, description); err != nil {
		return common.Hash{}, err
	}
	return g.engine.Propose(proposer, targets, values, calldatas, description)
}

// storeProposal derives the proposal id and stores the legacy metadata if it
// is not present yet.
func (g *GovernorBravo) storeProposal(proposer common.Address, actions *Actions, description string) (common.Hash, error) {
	if err := validateActions(actions); err != nil {
		return common.Hash{}, err
	}
	encoded, err := actions.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	stored := actions.Copy()
	for i, v := range stored.Values {
		if v == nil {
			stored.Values[i] = new(big.Int)
		}
	}
	descHash := DescriptionHash(description)
	id := g.engine.HashProposal(stored.Targets, stored.Values, encoded, descHash)
	if _, err := g.store.Create(id, proposer, stored, descHash); err != nil {
		return common.Hash{}, fmt.Errorf("failed to store proposal %x: %w", id, err)
	}
	return id, nil
}

// Queue schedules a succeeded proposal, looking up its actions by id.
func (g *GovernorBravo) Queue(proposalID common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.forward(proposalID, g.engine.Queue)
}

// Execute runs a succeeded or queued proposal, looking up its actions by id.
func (g *GovernorBravo) Execute(proposalID common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.forward(proposalID, g.engine.Execute)
}

// Cancel cancels a proposal on behalf of caller. The proposer may always
// cancel. Anyone else may cancel only once the proposer's voting power at the
// previous block has fallen below the proposal threshold.
func (g *GovernorBravo) Cancel(caller common.Address, proposalID common.Hash) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	proposer := g.store.Proposer(proposalID)
	if caller != proposer {
		if err := g.checkCancelable(proposer); err != nil {
			return common.Hash{}, err
		}
	}
	id, err := g.forward(proposalID, g.engine.Cancel)
	if err == nil && caller != proposer {
		log.Info("Proposal cancelled by third party", "id", proposalID, "proposer", proposer, "caller", caller)
	}
	return id, err
}

func (g *GovernorBravo) checkCancelable(proposer common.Address) error {
	now := g.engine.Clock()
	if now == 0 {
		return fmt.Errorf("%w: no finalized block", ErrProposerAboveThreshold)
	}
	votes, err := g.engine.GetVotes(proposer, now-1)
	if err != nil {
		return err
	}
	if !votes.Lt(g.engine.ProposalThreshold()) {
		return ErrProposerAboveThreshold
	}
	return nil
}

type engineOp func(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error)

// forward rebuilds the canonical action list of a stored proposal and hands it
// to an engine operation. Unknown ids forward empty lists; the engine is the
// authority on whether the proposal exists. The caller holds g.mu.
func (g *GovernorBravo) forward(proposalID common.Hash, op engineOp) (common.Hash, error) {
	var id common.Hash
	err := storage.Atomic(g.db, func() error {
		actions, err := g.store.Actions(proposalID)
		if err != nil {
			return err
		}
		encoded, err := actions.Encode()
		if err != nil {
			return err
		}
		id, err = op(actions.Targets, actions.Values, encoded, g.store.DescriptionHash(proposalID))
		return err
	})
	return id, err
}

// CastVote casts a vote through the engine, which checks that voting is open
// and resolves the voter's weight before the vote is counted here.
func (g *GovernorBravo) CastVote(voter common.Address, proposalID common.Hash, support uint8, reason string) (*uint256.Int, error) {
	return g.CastVoteWithParams(voter, proposalID, support, reason, nil)
}

// CastVoteWithParams is CastVote with extra counting parameters. The bravo
// counting scheme ignores them.
func (g *GovernorBravo) CastVoteWithParams(voter common.Address, proposalID common.Hash, support uint8, reason string, params []byte) (*uint256.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var weight *uint256.Int
	err := storage.Atomic(g.db, func() error {
		var err error
		weight, err = g.engine.CastVote(voter, proposalID, support, reason, params)
		return err
	})
	return weight, err
}

func validateActions(a *Actions) error {
	if len(a.Targets) != len(a.Values) || len(a.Targets) != len(a.Calldatas) {
		return ErrInvalidProposalLength
	}
	if len(a.Targets) == 0 {
		return ErrEmptyProposal
	}
	for _, v := range a.Values {
		if v != nil && (v.Sign() < 0 || v.BitLen() > 256) {
			return ErrInvalidValue
		}
	}
	return nil
}

// DescriptionHash returns the keccak256 digest under which descriptions are
// keyed.
func DescriptionHash(description string) common.Hash {
	return crypto.Keccak256Hash([]byte(description))
}
