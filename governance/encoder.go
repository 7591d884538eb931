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
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector returns the 4-byte function selector of a signature such as
// "transfer(address,uint256)".
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature)))
	return sel
}

// EncodeCalldata turns legacy (signature, parameters) pairs into the calldata
// the engine executes and hashes. An empty signature means the parameters are
// already a full calldata and are used verbatim; otherwise the selector of the
// signature is prepended. The returned slices never alias the inputs.
func EncodeCalldata(signatures []string, calldatas [][]byte) ([][]byte, error) {
	if len(signatures) != len(calldatas) {
		return nil, ErrActionListLengthMismatch
	}
	encoded := make([][]byte, len(calldatas))
	for i, sig := range signatures {
		if sig == "" {
			encoded[i] = append([]byte{}, calldatas[i]...)
			continue
		}
		sel := Selector(sig)
		data := make([]byte, 0, len(sel)+len(calldatas[i]))
		data = append(data, sel[:]...)
		encoded[i] = append(data, calldatas[i]...)
	}
	return encoded, nil
}
