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

package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/mccoysc/governor-bravo/engine"
	"github.com/mccoysc/governor-bravo/governance"
	"github.com/mccoysc/governor-bravo/timelock"
	"github.com/mccoysc/governor-bravo/votes"
)

var (
	failColor = color.New(color.FgYellow)
	showColor = color.New(color.FgCyan)
)

var (
	errUnknownAction   = errors.New("unknown action")
	errUnknownLabel    = errors.New("unknown proposal label")
	errExpectedFailure = errors.New("step succeeded but an error was expected")
	errStateMismatch   = errors.New("proposal state mismatch")
)

// Scenario is a scripted governance session.
type Scenario struct {
	Config *engine.Config `toml:"config"`
	Steps  []Step         `toml:"step"`
}

// Step is one action of a scenario. Fields are interpreted per action.
type Step struct {
	Action string `toml:"action"`

	Account common.Address `toml:"account"` // mint, transfer sender, proposer, voter or canceller
	To      common.Address `toml:"to"`
	Amount  string         `toml:"amount"`
	Blocks  uint64         `toml:"blocks"`
	Seconds uint64         `toml:"seconds"`

	Proposal    string           `toml:"proposal"` // label of a proposal created by an earlier step
	Targets     []common.Address `toml:"targets"`
	Values      []string         `toml:"values"`
	Signatures  []string         `toml:"signatures"`
	Calldatas   []hexutil.Bytes  `toml:"calldatas"`
	Description string           `toml:"description"`
	Support     uint8            `toml:"support"`
	Reason      string           `toml:"reason"`

	ExpectError string `toml:"expect_error"`
	ExpectState string `toml:"expect_state"`
}

// LoadScenario reads a scenario file. The [config] table is applied over base.
func LoadScenario(path string, base *engine.Config) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc := &Scenario{Config: base}
	if _, err := toml.Decode(string(data), sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// Call is an action executed on behalf of the governor.
type Call struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

// Runner replays scenario steps against an in-memory deployment.
type Runner struct {
	clock  *engine.ManualClock
	ledger *votes.Ledger
	dep    *engine.Deployment
	ids    map[string]common.Hash
	calls  []Call
	out    io.Writer
}

// NewRunner deploys a fresh governance setup at block 1.
func NewRunner(cfg *engine.Config, out io.Writer) (*Runner, error) {
	db, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, err
	}
	r := &Runner{
		clock:  engine.NewManualClock(1, 1_700_000_000),
		ledger: votes.NewLedger(),
		ids:    make(map[string]common.Hash),
		out:    out,
	}
	exec := timelock.ExecutorFunc(func(target common.Address, value *big.Int, data []byte) ([]byte, error) {
		r.calls = append(r.calls, Call{Target: target, Value: value, Data: common.CopyBytes(data)})
		fmt.Fprintf(r.out, "call   target=%s value=%s data=%x\n", target.Hex(), value, data)
		return nil, nil
	})
	r.dep, err = engine.Deploy(db, cfg, r.clock, r.ledger, exec)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Calls returns the actions executed so far.
func (r *Runner) Calls() []Call {
	return r.calls
}

// Run executes the steps in order and stops at the first unexpected outcome.
func (r *Runner) Run(steps []Step) error {
	for i, s := range steps {
		err := r.step(s)
		if s.ExpectError != "" {
			if err == nil {
				return fmt.Errorf("step %d (%s): %w: %q", i, s.Action, errExpectedFailure, s.ExpectError)
			}
			if !strings.Contains(err.Error(), s.ExpectError) {
				return fmt.Errorf("step %d (%s): unexpected error: %v", i, s.Action, err)
			}
			failColor.Fprintf(r.out, "fail   step=%d action=%s err=%q (expected)\n", i, s.Action, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, s.Action, err)
		}
		if s.ExpectState != "" {
			if err := r.checkState(s); err != nil {
				return fmt.Errorf("step %d (%s): %w", i, s.Action, err)
			}
		}
	}
	return nil
}

func (r *Runner) step(s Step) error {
	log.Debug("Replaying step", "action", s.Action, "block", r.clock.Number(), "time", r.clock.Now())

	switch s.Action {
	case "mint":
		amount, err := parseAmount(s.Amount)
		if err != nil {
			return err
		}
		return r.ledger.Mint(s.Account, amount, r.clock.Number())
	case "transfer":
		amount, err := parseAmount(s.Amount)
		if err != nil {
			return err
		}
		return r.ledger.Transfer(s.Account, s.To, amount, r.clock.Number())
	case "mine":
		r.clock.Mine(s.Blocks)
		return nil
	case "warp":
		r.clock.Warp(s.Seconds)
		return nil
	case "propose":
		return r.propose(s)
	case "vote":
		id, err := r.lookup(s.Proposal)
		if err != nil {
			return err
		}
		weight, err := r.dep.Bravo.CastVote(s.Account, id, s.Support, s.Reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "vote   %s voter=%s support=%s weight=%s\n", s.Proposal, s.Account.Hex(), governance.VoteType(s.Support), weight)
		return nil
	case "queue":
		id, err := r.lookup(s.Proposal)
		if err != nil {
			return err
		}
		_, err = r.dep.Bravo.Queue(id)
		return err
	case "execute":
		id, err := r.lookup(s.Proposal)
		if err != nil {
			return err
		}
		_, err = r.dep.Bravo.Execute(id)
		return err
	case "cancel":
		id, err := r.lookup(s.Proposal)
		if err != nil {
			return err
		}
		_, err = r.dep.Bravo.Cancel(s.Account, id)
		return err
	case "show":
		return r.show(s.Proposal)
	}
	return fmt.Errorf("%w: %q", errUnknownAction, s.Action)
}

func (r *Runner) propose(s Step) error {
	values := make([]*big.Int, len(s.Values))
	for i, v := range s.Values {
		value, ok := math.ParseBig256(v)
		if !ok {
			return fmt.Errorf("invalid value %q", v)
		}
		values[i] = value
	}
	calldatas := make([][]byte, len(s.Calldatas))
	for i, data := range s.Calldatas {
		calldatas[i] = data
	}

	var (
		id  common.Hash
		err error
	)
	if len(s.Signatures) > 0 {
		id, err = r.dep.Bravo.ProposeWithSignatures(s.Account, s.Targets, values, s.Signatures, calldatas, s.Description)
	} else {
		id, err = r.dep.Bravo.Propose(s.Account, s.Targets, values, calldatas, s.Description)
	}
	if err != nil {
		return err
	}
	if s.Proposal != "" {
		r.ids[s.Proposal] = id
	}
	fmt.Fprintf(r.out, "propose %s id=%s proposer=%s\n", s.Proposal, id.Hex(), s.Account.Hex())
	return nil
}

func (r *Runner) lookup(label string) (common.Hash, error) {
	id, ok := r.ids[label]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %q", errUnknownLabel, label)
	}
	return id, nil
}

func (r *Runner) show(label string) error {
	id, err := r.lookup(label)
	if err != nil {
		return err
	}
	st, err := r.dep.Bravo.State(id)
	if err != nil {
		return err
	}
	p, err := r.dep.Bravo.Proposals(id)
	if err != nil {
		return err
	}
	showColor.Fprintf(r.out, "show   %s state=%s for=%s against=%s abstain=%s start=%d end=%d eta=%d\n",
		label, st, p.ForVotes, p.AgainstVotes, p.AbstainVotes, p.StartBlock, p.EndBlock, p.Eta)
	return nil
}

func (r *Runner) checkState(s Step) error {
	id, err := r.lookup(s.Proposal)
	if err != nil {
		return err
	}
	st, err := r.dep.Bravo.State(id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(st.String(), s.ExpectState) {
		return fmt.Errorf("%w: have %s, want %s", errStateMismatch, st, s.ExpectState)
	}
	return nil
}

func parseAmount(s string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
