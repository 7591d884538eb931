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
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mccoysc/governor-bravo/storage"
)

// detailsSlot roots the proposal details mapping in the bravo contract storage.
var detailsSlot = storage.NamedSlot("governor.bravo.proposalDetails")

// Word offsets inside a proposal record.
const (
	offsetProposer uint64 = iota
	offsetDescriptionHash
	offsetAgainstVotes
	offsetForVotes
	offsetAbstainVotes
	offsetActions
	offsetReceipts
)

// receiptVotesBytes is the number of trailing bytes of a receipt word that hold
// the recorded weight.
const receiptVotesBytes = ReceiptVotesBits / 8

// actionsRecord is the RLP form of an action list.
type actionsRecord struct {
	Targets    []common.Address
	Values     []*big.Int
	Signatures []string
	Calldatas  [][]byte
}

// ProposalStore keeps bravo proposal metadata, tallies and receipts in the
// storage of the bravo contract. Each proposal owns a record rooted at
// keccak256(id ‖ detailsSlot); its receipts form a mapping nested inside that
// record.
type ProposalStore struct {
	contract *storage.Contract
}

// NewProposalStore creates a store over the given contract storage.
func NewProposalStore(contract *storage.Contract) *ProposalStore {
	return &ProposalStore{contract: contract}
}

func (s *ProposalStore) slot(id common.Hash, offset uint64) common.Hash {
	return storage.Offset(storage.MapSlot(id[:], detailsSlot), offset)
}

func (s *ProposalStore) receiptSlot(id common.Hash, voter common.Address) common.Hash {
	return storage.MapSlot(voter.Bytes(), s.slot(id, offsetReceipts))
}

// Exists reports whether metadata was stored for id. A zero description hash
// marks a proposal that has not been created.
func (s *ProposalStore) Exists(id common.Hash) bool {
	return s.contract.Word(s.slot(id, offsetDescriptionHash)) != (common.Hash{})
}

// Create stores the immutable metadata of a proposal if none exists yet. It
// reports whether the metadata was written; an existing record is left
// untouched and is not an error.
func (s *ProposalStore) Create(id common.Hash, proposer common.Address, actions *Actions, descriptionHash common.Hash) (bool, error) {
	if s.Exists(id) {
		return false, nil
	}
	rec := &actionsRecord{
		Targets:    actions.Targets,
		Values:     actions.Values,
		Signatures: actions.Signatures,
		Calldatas:  actions.Calldatas,
	}
	if err := s.contract.SetRLP(s.slot(id, offsetActions), rec); err != nil {
		return false, err
	}
	s.contract.SetAddress(s.slot(id, offsetProposer), proposer)
	s.contract.SetWord(s.slot(id, offsetDescriptionHash), descriptionHash)

	log.Debug("Proposal details stored", "id", id, "proposer", proposer, "actions", actions.Len())
	return true, nil
}

// Proposer returns the account that created the proposal, or the zero
// address if it is unknown.
func (s *ProposalStore) Proposer(id common.Hash) common.Address {
	return s.contract.AddressAt(s.slot(id, offsetProposer))
}

// DescriptionHash returns the stored description digest.
func (s *ProposalStore) DescriptionHash(id common.Hash) common.Hash {
	return s.contract.Word(s.slot(id, offsetDescriptionHash))
}

// Actions returns the stored action list. Unknown proposals yield an empty list.
func (s *ProposalStore) Actions(id common.Hash) (*Actions, error) {
	var rec actionsRecord
	if _, err := s.contract.RLP(s.slot(id, offsetActions), &rec); err != nil {
		return nil, err
	}
	actions := &Actions{
		Targets:    rec.Targets,
		Values:     rec.Values,
		Signatures: rec.Signatures,
		Calldatas:  rec.Calldatas,
	}
	return actions, nil
}

// Tally returns the accumulated weight for one support code.
func (s *ProposalStore) Tally(id common.Hash, support VoteType) *uint256.Int {
	return s.contract.Uint256(s.slot(id, tallyOffset(support)))
}

func (s *ProposalStore) setTally(id common.Hash, support VoteType, v *uint256.Int) {
	s.contract.SetUint256(s.slot(id, tallyOffset(support)), v)
}

// Details returns the metadata and tallies of a proposal. A lookup miss
// yields zero values rather than an error.
func (s *ProposalStore) Details(id common.Hash) (*ProposalDetails, error) {
	actions, err := s.Actions(id)
	if err != nil {
		return nil, err
	}
	return &ProposalDetails{
		Proposer:        s.Proposer(id),
		Actions:         actions,
		DescriptionHash: s.DescriptionHash(id),
		ForVotes:        s.Tally(id, VoteFor),
		AgainstVotes:    s.Tally(id, VoteAgainst),
		AbstainVotes:    s.Tally(id, VoteAbstain),
	}, nil
}

// Receipt returns the vote receipt of voter. The receipt is packed in a single
// word: byte 0 holds the voted flag, byte 1 the support code and the trailing
// 12 bytes the recorded weight.
func (s *ProposalStore) Receipt(id common.Hash, voter common.Address) Receipt {
	w := s.contract.Word(s.receiptSlot(id, voter))
	return Receipt{
		HasVoted: w[0] == 1,
		Support:  VoteType(w[1]),
		Votes:    new(uint256.Int).SetBytes(w[common.HashLength-receiptVotesBytes:]),
	}
}

func (s *ProposalStore) setReceipt(id common.Hash, voter common.Address, r Receipt) {
	var w common.Hash
	if r.HasVoted {
		w[0] = 1
	}
	w[1] = byte(r.Support)
	if r.Votes != nil {
		votes := r.Votes.Bytes32()
		copy(w[common.HashLength-receiptVotesBytes:], votes[common.HashLength-receiptVotesBytes:])
	}
	s.contract.SetWord(s.receiptSlot(id, voter), w)
}

func tallyOffset(support VoteType) uint64 {
	switch support {
	case VoteFor:
		return offsetForVotes
	case VoteAbstain:
		return offsetAbstainVotes
	default:
		return offsetAgainstVotes
	}
}
