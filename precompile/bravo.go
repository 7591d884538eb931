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

// Package precompile exposes the bravo compatibility layer through the legacy
// GovernorBravo ABI so existing clients can call it unchanged.
package precompile

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/governor-bravo/governance"
)

var (
	ErrInputTooShort   = errors.New("input too short")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrWriteProtection = errors.New("write protection")
	ErrContextRequired = errors.New("context required")
)

// Gas charged per call.
const (
	readGas  uint64 = 5000
	writeGas uint64 = 50000
)

// CallContext describes the call being served.
type CallContext struct {
	// Caller address
	Caller common.Address

	// Transaction originator
	Origin common.Address

	// ReadOnly indicates a static call; state-modifying methods fail
	ReadOnly bool
}

type handler func(ctx *CallContext, args []interface{}) ([]interface{}, error)

type route struct {
	write bool
	fn    handler
}

// Bravo is the legacy GovernorBravo entry point.
type Bravo struct {
	abi    abi.ABI
	gov    *governance.GovernorBravo
	routes map[string]route // keyed by method signature
}

// NewBravo creates the precompile in front of gov.
func NewBravo(gov *governance.GovernorBravo) (*Bravo, error) {
	parsed, err := abi.JSON(strings.NewReader(bravoABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bravo ABI: %w", err)
	}
	b := &Bravo{abi: parsed, gov: gov}
	b.routes = map[string]route{
		"propose(address[],uint256[],string[],bytes[],string)": {true, b.proposeWithSignatures},
		"propose(address[],uint256[],bytes[],string)":          {true, b.propose},
		"queue(uint256)":                                       {true, b.queue},
		"execute(uint256)":                                     {true, b.execute},
		"cancel(uint256)":                                      {true, b.cancel},
		"castVote(uint256,uint8)":                              {true, b.castVote},
		"castVoteWithReason(uint256,uint8,string)":             {true, b.castVoteWithReason},
		"proposals(uint256)":                                   {false, b.proposals},
		"getActions(uint256)":                                  {false, b.getActions},
		"getReceipt(uint256,address)":                          {false, b.getReceipt},
		"hasVoted(uint256,address)":                            {false, b.hasVoted},
		"quorumVotes()":                                        {false, b.quorumVotes},
		"proposalThreshold()":                                  {false, b.proposalThreshold},
		"state(uint256)":                                       {false, b.state},
		"COUNTING_MODE()":                                      {false, b.countingMode},
	}
	return b, nil
}

// Name returns the name of the contract
func (b *Bravo) Name() string {
	return "GovernorBravo"
}

// ABI returns the served interface.
func (b *Bravo) ABI() abi.ABI {
	return b.abi
}

// RequiredGas charges a flat price per read or write method.
func (b *Bravo) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return readGas
	}
	method, err := b.abi.MethodById(input[:4])
	if err != nil {
		return readGas
	}
	if r, ok := b.routes[method.Sig]; ok && r.write {
		return writeGas
	}
	return readGas
}

// Run executes the contract (requires context)
func (b *Bravo) Run(input []byte) ([]byte, error) {
	return nil, ErrContextRequired
}

// RunWithContext decodes a legacy call, serves it and encodes the result.
func (b *Bravo) RunWithContext(ctx *CallContext, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, ErrInputTooShort
	}
	method, err := b.abi.MethodById(input[:4])
	if err != nil {
		return nil, fmt.Errorf("%w: %x", ErrUnknownMethod, input[:4])
	}
	r, ok := b.routes[method.Sig]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method.Sig)
	}
	if r.write && ctx.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrWriteProtection, method.Name)
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method.Sig, err)
	}
	out, err := r.fn(ctx, args)
	if err != nil {
		log.Debug("Bravo call failed", "method", method.Sig, "caller", ctx.Caller, "err", err)
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func idArg(v interface{}) common.Hash {
	return common.BigToHash(v.(*big.Int))
}

func idOut(id common.Hash) *big.Int {
	return new(big.Int).SetBytes(id[:])
}

func (b *Bravo) proposeWithSignatures(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	id, err := b.gov.ProposeWithSignatures(ctx.Caller,
		args[0].([]common.Address),
		args[1].([]*big.Int),
		args[2].([]string),
		args[3].([][]byte),
		args[4].(string))
	if err != nil {
		return nil, err
	}
	return []interface{}{idOut(id)}, nil
}

func (b *Bravo) propose(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	id, err := b.gov.Propose(ctx.Caller,
		args[0].([]common.Address),
		args[1].([]*big.Int),
		args[2].([][]byte),
		args[3].(string))
	if err != nil {
		return nil, err
	}
	return []interface{}{idOut(id)}, nil
}

func (b *Bravo) queue(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	_, err := b.gov.Queue(idArg(args[0]))
	return nil, err
}

func (b *Bravo) execute(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	_, err := b.gov.Execute(idArg(args[0]))
	return nil, err
}

func (b *Bravo) cancel(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	_, err := b.gov.Cancel(ctx.Caller, idArg(args[0]))
	return nil, err
}

func (b *Bravo) castVote(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	weight, err := b.gov.CastVote(ctx.Caller, idArg(args[0]), args[1].(uint8), "")
	if err != nil {
		return nil, err
	}
	return []interface{}{weight.ToBig()}, nil
}

func (b *Bravo) castVoteWithReason(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	weight, err := b.gov.CastVote(ctx.Caller, idArg(args[0]), args[1].(uint8), args[2].(string))
	if err != nil {
		return nil, err
	}
	return []interface{}{weight.ToBig()}, nil
}

func (b *Bravo) proposals(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	p, err := b.gov.Proposals(idArg(args[0]))
	if err != nil {
		return nil, err
	}
	return []interface{}{
		idOut(p.ID),
		p.Proposer,
		new(big.Int).SetUint64(p.Eta),
		new(big.Int).SetUint64(p.StartBlock),
		new(big.Int).SetUint64(p.EndBlock),
		p.ForVotes.ToBig(),
		p.AgainstVotes.ToBig(),
		p.AbstainVotes.ToBig(),
		p.Canceled,
		p.Executed,
	}, nil
}

func (b *Bravo) getActions(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	a, err := b.gov.GetActions(idArg(args[0]))
	if err != nil {
		return nil, err
	}
	values := make([]*big.Int, len(a.Values))
	for i, v := range a.Values {
		if v == nil {
			v = new(big.Int)
		}
		values[i] = v
	}
	return []interface{}{a.Targets, values, a.Signatures, a.Calldatas}, nil
}

// receiptTuple mirrors the Receipt struct of the legacy ABI.
type receiptTuple struct {
	HasVoted bool
	Support  uint8
	Votes    *big.Int
}

func (b *Bravo) getReceipt(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	r := b.gov.GetReceipt(idArg(args[0]), args[1].(common.Address))
	votes := new(big.Int)
	if r.Votes != nil {
		votes = r.Votes.ToBig()
	}
	return []interface{}{receiptTuple{HasVoted: r.HasVoted, Support: uint8(r.Support), Votes: votes}}, nil
}

func (b *Bravo) hasVoted(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	return []interface{}{b.gov.HasVoted(idArg(args[0]), args[1].(common.Address))}, nil
}

func (b *Bravo) quorumVotes(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	q, err := b.gov.QuorumVotes()
	if err != nil {
		return nil, err
	}
	return []interface{}{q.ToBig()}, nil
}

func (b *Bravo) proposalThreshold(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	return []interface{}{b.gov.ProposalThreshold().ToBig()}, nil
}

func (b *Bravo) state(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	st, err := b.gov.State(idArg(args[0]))
	if err != nil {
		return nil, err
	}
	return []interface{}{uint8(st)}, nil
}

func (b *Bravo) countingMode(ctx *CallContext, args []interface{}) ([]interface{}, error) {
	return []interface{}{b.gov.CountingMode()}, nil
}
