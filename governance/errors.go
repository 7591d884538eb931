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

import "errors"

// Proposal submission errors
var (
	ErrActionListLengthMismatch = errors.New("invalid signatures length")
	ErrInvalidProposalLength    = errors.New("invalid proposal length")
	ErrEmptyProposal            = errors.New("empty proposal")
	ErrInvalidValue             = errors.New("action value does not fit in uint256")
)

// Vote counting errors
var (
	ErrAlreadyVoted   = errors.New("vote already cast")
	ErrInvalidSupport = errors.New("invalid vote type")
	ErrWeightOverflow = errors.New("vote weight does not fit in 96 bits")
	ErrTallyOverflow  = errors.New("vote tally overflow")
)

// Cancellation errors
var (
	ErrProposerAboveThreshold = errors.New("proposer above threshold")
)
