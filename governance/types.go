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
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CountingMode describes the fixed counting scheme of the bravo module to
// off-chain tooling.
const CountingMode = "support=bravo&quorum=bravo"

// ReceiptVotesBits is the width of the weight recorded in a vote receipt.
// Tallies are kept at full 256-bit width.
const ReceiptVotesBits = 96

// ProposalState is the lifecycle status reported by the base engine.
type ProposalState uint8

const (
	StatePending   ProposalState = 0x00 // 等待投票开始
	StateActive    ProposalState = 0x01 // 投票中
	StateCanceled  ProposalState = 0x02 // 已取消
	StateDefeated  ProposalState = 0x03 // 未通过
	StateSucceeded ProposalState = 0x04 // 已通过
	StateQueued    ProposalState = 0x05 // 已进入时间锁
	StateExpired   ProposalState = 0x06 // 已过期
	StateExecuted  ProposalState = 0x07 // 已执行
)

var stateNames = [...]string{
	StatePending:   "Pending",
	StateActive:    "Active",
	StateCanceled:  "Canceled",
	StateDefeated:  "Defeated",
	StateSucceeded: "Succeeded",
	StateQueued:    "Queued",
	StateExpired:   "Expired",
	StateExecuted:  "Executed",
}

func (s ProposalState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("ProposalState(%d)", uint8(s))
}

// VoteType is the support code of a bravo vote.
type VoteType uint8

const (
	VoteAgainst VoteType = 0x00 // 反对
	VoteFor     VoteType = 0x01 // 赞成
	VoteAbstain VoteType = 0x02 // 弃权
)

// Valid reports whether v is one of the three bravo support codes.
func (v VoteType) Valid() bool {
	return v <= VoteAbstain
}

func (v VoteType) String() string {
	switch v {
	case VoteAgainst:
		return "Against"
	case VoteFor:
		return "For"
	case VoteAbstain:
		return "Abstain"
	default:
		return fmt.Sprintf("VoteType(%d)", uint8(v))
	}
}

// Receipt records how an account voted on a proposal.
type Receipt struct {
	HasVoted bool         // 是否已投票
	Support  VoteType     // 投票类型
	Votes    *uint256.Int // 投票权重（不超过 96 位）
}

// Actions is the legacy description of a proposal's calls: each action is a
// target, a value, an optional human-readable signature and the parameters.
// When the signature is empty the parameters are already a full calldata.
type Actions struct {
	Targets    []common.Address
	Values     []*big.Int
	Signatures []string
	Calldatas  [][]byte
}

// Len returns the number of actions.
func (a *Actions) Len() int {
	return len(a.Targets)
}

// Encode returns the canonical calldata of every action.
func (a *Actions) Encode() ([][]byte, error) {
	return EncodeCalldata(a.Signatures, a.Calldatas)
}

// Copy returns a deep copy of the action list.
func (a *Actions) Copy() *Actions {
	cpy := &Actions{
		Targets:    append([]common.Address(nil), a.Targets...),
		Values:     make([]*big.Int, len(a.Values)),
		Signatures: append([]string(nil), a.Signatures...),
		Calldatas:  make([][]byte, len(a.Calldatas)),
	}
	for i, v := range a.Values {
		if v != nil {
			cpy.Values[i] = new(big.Int).Set(v)
		}
	}
	for i, data := range a.Calldatas {
		cpy.Calldatas[i] = common.CopyBytes(data)
	}
	return cpy
}

// ProposalDetails is the metadata and tally the bravo module keeps for a
// proposal.
type ProposalDetails struct {
	Proposer        common.Address
	Actions         *Actions
	DescriptionHash common.Hash
	ForVotes        *uint256.Int
	AgainstVotes    *uint256.Int
	AbstainVotes    *uint256.Int
}

// ProposalView is the flat proposal representation legacy clients expect.
type ProposalView struct {
	ID           common.Hash    // 提案 ID
	Proposer     common.Address // 提案者
	Eta          uint64         // 时间锁可执行时间
	StartBlock   uint64         // 快照区块
	EndBlock     uint64         // 投票截止区块
	ForVotes     *uint256.Int   // 赞成票
	AgainstVotes *uint256.Int   // 反对票
	AbstainVotes *uint256.Int   // 弃权票
	Canceled     bool           // 是否已取消
	Executed     bool           // 是否已执行
}
