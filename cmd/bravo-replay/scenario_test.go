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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mccoysc/governor-bravo/engine"
	"github.com/stretchr/testify/require"
)

func TestReplay_Lifecycle(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "lifecycle.toml"), engine.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, uint64(172800), sc.Config.TimelockDelay)

	var out bytes.Buffer
	runner, err := NewRunner(sc.Config, &out)
	require.NoError(t, err)
	require.NoError(t, runner.Run(sc.Steps))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, common.HexToAddress("0x7040"), calls[0].Target)
	sel := crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	require.Equal(t, sel, calls[0].Data[:4])
	require.Contains(t, out.String(), "state=Executed")
}

func TestReplay_Failures(t *testing.T) {
	alice := common.HexToAddress("0xa11ce")
	runner, err := NewRunner(engine.DefaultConfig(), new(bytes.Buffer))
	require.NoError(t, err)

	err = runner.Run([]Step{{Action: "dance"}})
	require.ErrorIs(t, err, errUnknownAction)

	err = runner.Run([]Step{{Action: "queue", Proposal: "missing"}})
	require.ErrorIs(t, err, errUnknownLabel)

	err = runner.Run([]Step{{Action: "mine", Blocks: 1, ExpectError: "anything"}})
	require.ErrorIs(t, err, errExpectedFailure)

	err = runner.Run([]Step{{Action: "mint", Account: alice, Amount: "-5"}})
	require.Error(t, err)

	err = runner.Run([]Step{
		{Action: "mint", Account: alice, Amount: "1000"},
		{Action: "mine", Blocks: 1},
		{Action: "propose", Proposal: "p", Account: alice,
			Targets: []common.Address{alice}, Values: []string{"0"}, Calldatas: nil, Description: "x",
			ExpectError: "length"},
		{Action: "propose", Proposal: "p", Account: alice,
			Targets: []common.Address{alice}, Values: []string{"0"}, Calldatas: []hexutil.Bytes{{0x01}}, Description: "x",
			ExpectState: "Active"},
	})
	require.ErrorIs(t, err, errStateMismatch)
}

func TestLoadScenario_Errors(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml"), engine.DefaultConfig())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[step]\n"), 0o644))
	_, err = LoadScenario(path, engine.DefaultConfig())
	require.Error(t, err)
}
