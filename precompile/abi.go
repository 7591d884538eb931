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

package precompile

// bravoABI is the legacy GovernorBravo interface served by the compatibility
// precompile.
const bravoABI = `[
	{
		"name": "propose",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "targets", "type": "address[]"},
			{"name": "values", "type": "uint256[]"},
			{"name": "signatures", "type": "string[]"},
			{"name": "calldatas", "type": "bytes[]"},
			{"name": "description", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "propose",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "targets", "type": "address[]"},
			{"name": "values", "type": "uint256[]"},
			{"name": "calldatas", "type": "bytes[]"},
			{"name": "description", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "queue",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "execute",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "cancel",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "castVote",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "proposalId", "type": "uint256"},
			{"name": "support", "type": "uint8"}
		],
		"outputs": [{"name": "balance", "type": "uint256"}]
	},
	{
		"name": "castVoteWithReason",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "proposalId", "type": "uint256"},
			{"name": "support", "type": "uint8"},
			{"name": "reason", "type": "string"}
		],
		"outputs": [{"name": "balance", "type": "uint256"}]
	},
	{
		"name": "proposals",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": [
			{"name": "id", "type": "uint256"},
			{"name": "proposer", "type": "address"},
			{"name": "eta", "type": "uint256"},
			{"name": "startBlock", "type": "uint256"},
			{"name": "endBlock", "type": "uint256"},
			{"name": "forVotes", "type": "uint256"},
			{"name": "againstVotes", "type": "uint256"},
			{"name": "abstainVotes", "type": "uint256"},
			{"name": "canceled", "type": "bool"},
			{"name": "executed", "type": "bool"}
		]
	},
	{
		"name": "getActions",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": [
			{"name": "targets", "type": "address[]"},
			{"name": "values", "type": "uint256[]"},
			{"name": "signatures", "type": "string[]"},
			{"name": "calldatas", "type": "bytes[]"}
		]
	},
	{
		"name": "getReceipt",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "proposalId", "type": "uint256"},
			{"name": "voter", "type": "address"}
		],
		"outputs": [{
			"name": "",
			"type": "tuple",
			"components": [
				{"name": "hasVoted", "type": "bool"},
				{"name": "support", "type": "uint8"},
				{"name": "votes", "type": "uint96"}
			]
		}]
	},
	{
		"name": "hasVoted",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "proposalId", "type": "uint256"},
			{"name": "account", "type": "address"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "quorumVotes",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "proposalThreshold",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "state",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": [{"name": "", "type": "uint8"}]
	},
	{
		"name": "COUNTING_MODE",
		"type": "function",
		"stateMutability": "pure",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}]
	}
]`
