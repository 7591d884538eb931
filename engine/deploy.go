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
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/governor-bravo/governance"
	"github.com/mccoysc/governor-bravo/storage"
	"github.com/mccoysc/governor-bravo/timelock"
)

// Deployment bundles the contracts of a governance setup sharing one state.
type Deployment struct {
	Config   *Config
	Timelock *timelock.Timelock
	Governor *Governor
	Bravo    *governance.GovernorBravo
}

// Deploy wires a timelock, the base engine and the bravo compatibility layer
// onto db. The bravo layer is installed as the engine's counting module.
func Deploy(db storage.StateDB, cfg *Config, clock Clock, votes VotesSource, executor timelock.Executor) (*Deployment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tl := timelock.New(db, cfg.Timelock, cfg.TimelockDelay, cfg.GracePeriod, clock, executor)
	gov := NewGovernor(db, cfg, clock, votes, tl, executor)
	bravo := governance.NewGovernorBravo(db, cfg.Bravo, gov)
	gov.SetCounting(bravo.Counting())

	log.Info("Governance deployed",
		"governor", cfg.Governor,
		"timelock", cfg.Timelock,
		"bravo", cfg.Bravo,
		"votingDelay", cfg.VotingDelay,
		"votingPeriod", cfg.VotingPeriod,
		"threshold", cfg.ProposalThreshold,
		"quorumNumerator", cfg.QuorumNumerator,
		"quorumDenominator", cfg.QuorumDenominator)

	return &Deployment{
		Config:   cfg,
		Timelock: tl,
		Governor: gov,
		Bravo:    bravo,
	}, nil
}
