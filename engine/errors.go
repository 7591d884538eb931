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

import "errors"

var (
	ErrProposerBelowThreshold = errors.New("proposer votes below proposal threshold")
	ErrProposalExists         = errors.New("proposal already exists")
	ErrUnknownProposal        = errors.New("unknown proposal id")
	ErrVoteNotActive          = errors.New("vote not currently active")
	ErrProposalNotSuccessful  = errors.New("proposal not successful")
	ErrProposalNotQueued      = errors.New("proposal not yet queued")
	ErrProposalNotActive      = errors.New("proposal not active")
	ErrFutureLookup           = errors.New("future lookup")
	ErrNoCounting             = errors.New("no counting module installed")
	ErrActionAlreadyQueued    = errors.New("identical proposal action already queued")
)
