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

package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var proposalArguments = abi.Arguments{
	{Type: mustType("address[]")},
	{Type: mustType("uint256[]")},
	{Type: mustType("bytes[]")},
	{Type: mustType("bytes32")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// HashProposal returns keccak256(abi.encode(targets, values, calldatas,
// descriptionHash)). Nil values hash as zero.
func HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash {
	vals := make([]*big.Int, len(values))
	for i, v := range values {
		if v == nil {
			v = new(big.Int)
		}
		vals[i] = v
	}
	if targets == nil {
		targets = []common.Address{}
	}
	if calldatas == nil {
		calldatas = [][]byte{}
	}
	enc, err := proposalArguments.Pack(targets, vals, calldatas, [32]byte(descriptionHash))
	if err != nil {
		panic(fmt.Sprintf("engine: failed to pack proposal: %v", err))
	}
	return crypto.Keccak256Hash(enc)
}
