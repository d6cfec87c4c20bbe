// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fragment

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/voteaudit/ledger"
)

type InputKind uint8

const (
	InputKindAccount InputKind = 0
	InputKindUtxo    InputKind = 1
)

// Input is a transaction input. Account inputs spend from an account
// balance, utxo inputs reference an output of a previous transaction.
type Input struct {
	cbor.StructAsArray
	Kind      InputKind
	Account   ledger.AccountID
	UtxoTxID  [32]byte
	UtxoIndex uint8
	Value     uint64
}

// Witness authorizes an input. Newer witnesses carry the spending counter
// they were signed against.
type Witness struct {
	cbor.StructAsArray
	SpendingCounter *uint32
	Signature       []byte
}

type VotePayload struct {
	cbor.StructAsArray
	Type          ledger.PayloadType
	Choice        uint8
	EncryptedVote []byte
	Proof         []byte
}

type VoteCast struct {
	cbor.StructAsArray
	VotePlan      ledger.VotePlanID
	ProposalIndex uint8
	Payload       VotePayload
}

// Transaction is the body of a vote cast fragment
type Transaction struct {
	cbor.StructAsArray
	Inputs    []Input
	Witnesses []Witness
	VoteCast  VoteCast
}

// NewAccountVoteCast builds a public vote cast transaction spending from an
// account. A nil spending counter produces a witness without one.
func NewAccountVoteCast(
	voter ledger.AccountID,
	votePlan ledger.VotePlanID,
	proposalIndex uint8,
	choice uint8,
	spendingCounter *uint32,
) *Transaction {
	return &Transaction{
		Inputs: []Input{
			{
				Kind:    InputKindAccount,
				Account: voter,
			},
		},
		Witnesses: []Witness{
			{
				SpendingCounter: spendingCounter,
			},
		},
		VoteCast: VoteCast{
			VotePlan:      votePlan,
			ProposalIndex: proposalIndex,
			Payload: VotePayload{
				Type:   ledger.PayloadTypePublic,
				Choice: choice,
			},
		},
	}
}

func DecodeTransaction(data []byte) (*Transaction, error) {
	var ret Transaction
	if _, err := cbor.Decode(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}
	return &ret, nil
}
