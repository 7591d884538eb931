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
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config holds the governance parameters of a deployment.
type Config struct {
	VotingDelay       uint64   `toml:"voting_delay"`       // 提案创建到投票开始的区块数
	VotingPeriod      uint64   `toml:"voting_period"`      // 投票持续区块数
	ProposalThreshold *big.Int `toml:"proposal_threshold"` // 创建提案所需票数
	QuorumNumerator   uint64   `toml:"quorum_numerator"`   // 法定人数分子
	QuorumDenominator uint64   `toml:"quorum_denominator"` // 法定人数分母
	TimelockDelay     uint64   `toml:"timelock_delay"`     // 时间锁延迟（秒）
	GracePeriod       uint64   `toml:"grace_period"`       // 执行宽限期（秒）

	Governor common.Address `toml:"governor"`
	Timelock common.Address `toml:"timelock"`
	Bravo    common.Address `toml:"bravo"`
}

// DefaultConfig returns the parameters of a typical Compound deployment,
// scaled down for local replays.
func DefaultConfig() *Config {
	return &Config{
		VotingDelay:       1,
		VotingPeriod:      20,
		ProposalThreshold: big.NewInt(100),
		QuorumNumerator:   4,
		QuorumDenominator: 100,
		TimelockDelay:     2 * 24 * 3600,
		GracePeriod:       14 * 24 * 3600,
		Governor:          common.HexToAddress("0x0000000000000000000000000000000000001101"),
		Timelock:          common.HexToAddress("0x0000000000000000000000000000000000001102"),
		Bravo:             common.HexToAddress("0x0000000000000000000000000000000000001103"),
	}
}

var (
	errZeroVotingPeriod  = errors.New("voting period must be positive")
	errBadQuorumFraction = errors.New("quorum numerator must not exceed a positive denominator")
	errNegativeThreshold = errors.New("proposal threshold must be non-negative and fit 256 bits")
	errAddressClash      = errors.New("governor, timelock and bravo addresses must differ")
)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.VotingPeriod == 0 {
		return errZeroVotingPeriod
	}
	if c.QuorumDenominator == 0 || c.QuorumNumerator > c.QuorumDenominator {
		return errBadQuorumFraction
	}
	if c.ProposalThreshold == nil || c.ProposalThreshold.Sign() < 0 || c.ProposalThreshold.BitLen() > 256 {
		return errNegativeThreshold
	}
	if c.Governor == c.Timelock || c.Governor == c.Bravo || c.Timelock == c.Bravo {
		return errAddressClash
	}
	return nil
}

// LoadConfig reads a TOML file over the defaults, applies environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the BRAVO_* environment variables override numeric
// parameters.
func (c *Config) applyEnv() error {
	overrides := []struct {
		key string
		dst *uint64
	}{
		{"BRAVO_VOTING_DELAY", &c.VotingDelay},
		{"BRAVO_VOTING_PERIOD", &c.VotingPeriod},
		{"BRAVO_TIMELOCK_DELAY", &c.TimelockDelay},
		{"BRAVO_GRACE_PERIOD", &c.GracePeriod},
	}
	for _, o := range overrides {
		value := os.Getenv(o.key)
		if value == "" {
			continue
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.key, value, err)
		}
		*o.dst = n
	}
	if value := os.Getenv("BRAVO_PROPOSAL_THRESHOLD"); value != "" {
		threshold, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return fmt.Errorf("invalid BRAVO_PROPOSAL_THRESHOLD=%q", value)
		}
		c.ProposalThreshold = threshold
	}
	return nil
}
