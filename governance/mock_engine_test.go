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
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/mccoysc/governor-bravo/storage"
)

var (
	errMockExists  = errors.New("mock: proposal already exists")
	errMockUnknown = errors.New("mock: unknown proposal")
	errMockClosed  = errors.New("mock: vote not currently active")
)

var bravoAddr = common.HexToAddress("0x000000000000000000000000000000000000b7a0")

type mockProposal struct {
	proposer  common.Address
	snapshot  uint64
	deadline  uint64
	eta       uint64
	state     ProposalState
	calldatas [][]byte
}

type mockCall struct {
	op        string
	targets   []common.Address
	calldatas [][]byte
	descHash  common.Hash
}

// MockEngine is a minimal lifecycle engine for testing the bravo layer
type MockEngine struct {
	proposals map[common.Hash]*mockProposal
	votes     map[common.Address]*uint256.Int
	threshold *uint256.Int
	quorum    *uint256.Int
	clock     uint64
	counting  Counting
	calls     []mockCall

	// quorumAt records the block passed to the last Quorum call
	quorumAt uint64
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		proposals: make(map[common.Hash]*mockProposal),
		votes:     make(map[common.Address]*uint256.Int),
		threshold: uint256.NewInt(100),
		quorum:    uint256.NewInt(50),
		clock:     10,
	}
}

func (m *MockEngine) SetVotes(addr common.Address, votes uint64) {
	m.votes[addr] = uint256.NewInt(votes)
}

func (m *MockEngine) SetState(id common.Hash, s ProposalState) {
	m.proposals[id].state = s
}

func (m *MockEngine) HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash {
	enc, err := rlp.EncodeToBytes([]interface{}{targets, values, calldatas, descriptionHash})
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

func (m *MockEngine) Propose(proposer common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, description string) (common.Hash, error) {
	id := m.HashProposal(targets, values, calldatas, crypto.Keccak256Hash([]byte(description)))
	if _, exists := m.proposals[id]; exists {
		return common.Hash{}, errMockExists
	}
	m.proposals[id] = &mockProposal{
		proposer:  proposer,
		snapshot:  m.clock + 1,
		deadline:  m.clock + 11,
		state:     StatePending,
		calldatas: calldatas,
	}
	return id, nil
}

func (m *MockEngine) lifecycle(op string, targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (*mockProposal, common.Hash, error) {
	id := m.HashProposal(targets, values, calldatas, descriptionHash)
	p, exists := m.proposals[id]
	if !exists {
		return nil, common.Hash{}, errMockUnknown
	}
	m.calls = append(m.calls, mockCall{op: op, targets: targets, calldatas: calldatas, descHash: descriptionHash})
	return p, id, nil
}

func (m *MockEngine) Queue(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	p, id, err := m.lifecycle("queue", targets, values, calldatas, descriptionHash)
	if err != nil {
		return common.Hash{}, err
	}
	p.state, p.eta = StateQueued, 1000
	return id, nil
}

func (m *MockEngine) Execute(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	p, id, err := m.lifecycle("execute", targets, values, calldatas, descriptionHash)
	if err != nil {
		return common.Hash{}, err
	}
	p.state = StateExecuted
	return id, nil
}

func (m *MockEngine) Cancel(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	p, id, err := m.lifecycle("cancel", targets, values, calldatas, descriptionHash)
	if err != nil {
		return common.Hash{}, err
	}
	p.state = StateCanceled
	return id, nil
}

func (m *MockEngine) CastVote(voter common.Address, proposalID common.Hash, support uint8, reason string, params []byte) (*uint256.Int, error) {
	p, exists := m.proposals[proposalID]
	if !exists {
		return nil, errMockUnknown
	}
	if p.state != StateActive {
		return nil, errMockClosed
	}
	weight, _ := m.GetVotes(voter, p.snapshot)
	if err := m.counting.CountVote(proposalID, voter, support, weight, params); err != nil {
		return nil, err
	}
	return weight, nil
}

func (m *MockEngine) State(proposalID common.Hash) (ProposalState, error) {
	p, exists := m.proposals[proposalID]
	if !exists {
		return 0, errMockUnknown
	}
	return p.state, nil
}

func (m *MockEngine) ProposalSnapshot(proposalID common.Hash) uint64 {
	if p, exists := m.proposals[proposalID]; exists {
		return p.snapshot
	}
	return 0
}

func (m *MockEngine) ProposalDeadline(proposalID common.Hash) uint64 {
	if p, exists := m.proposals[proposalID]; exists {
		return p.deadline
	}
	return 0
}

func (m *MockEngine) ProposalEta(proposalID common.Hash) uint64 {
	if p, exists := m.proposals[proposalID]; exists {
		return p.eta
	}
	return 0
}

func (m *MockEngine) Quorum(blockNumber uint64) (*uint256.Int, error) {
	m.quorumAt = blockNumber
	return m.quorum.Clone(), nil
}

func (m *MockEngine) ProposalThreshold() *uint256.Int {
	return m.threshold.Clone()
}

func (m *MockEngine) GetVotes(account common.Address, blockNumber uint64) (*uint256.Int, error) {
	if v, ok := m.votes[account]; ok {
		return v.Clone(), nil
	}
	return new(uint256.Int), nil
}

func (m *MockEngine) Clock() uint64 {
	return m.clock
}

func newTestState(t *testing.T) *state.StateDB {
	t.Helper()
	db, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		t.Fatalf("failed to create state: %v", err)
	}
	return db
}

// newTestGovernor wires a bravo layer to a mock engine over a fresh state.
func newTestGovernor(t *testing.T) (*GovernorBravo, *MockEngine) {
	t.Helper()
	engine := NewMockEngine()
	gov := NewGovernorBravo(newTestState(t), bravoAddr, engine)
	engine.counting = gov.Counting()
	return gov, engine
}

func newTestStore(t *testing.T) *ProposalStore {
	t.Helper()
	return NewProposalStore(storage.NewContract(newTestState(t), bravoAddr))
}
