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

	"github.com/blinklabs-io/voteaudit/ledger"
)

// VoteCastInfo is the content of a public account vote cast
type VoteCastInfo struct {
	// Nil when the witness does not carry a counter
	SpendingCounter *uint32
	VotePlan        ledger.VotePlanID
	Voter           ledger.AccountID
	ProposalIndex   uint8
	Choice          uint8
}

// DecodeVoteCast extracts the vote from a vote cast fragment. Vote casts
// spending utxo inputs or carrying a private ballot return an error wrapping
// ErrUnsupportedTransaction.
func DecodeVoteCast(f *Fragment) (*VoteCastInfo, error) {
	if !f.IsVoteCast() {
		return nil, fmt.Errorf("%w: %s", ErrNotVoteCast, f.Kind)
	}
	tx, err := DecodeTransaction(f.Payload)
	if err != nil {
		return nil, err
	}
	for _, input := range tx.Inputs {
		if input.Kind == InputKindUtxo {
			return nil, ErrUtxoVote
		}
	}
	if len(tx.Inputs) != 1 {
		return nil, fmt.Errorf(
			"%w: expected a single account input, got %d",
			ErrMalformedTransaction,
			len(tx.Inputs),
		)
	}
	input := tx.Inputs[0]
	if input.Kind != InputKindAccount {
		return nil, fmt.Errorf(
			"%w: unknown input kind %d",
			ErrMalformedTransaction,
			input.Kind,
		)
	}
	if len(tx.Witnesses) != 1 {
		return nil, fmt.Errorf(
			"%w: expected a single witness, got %d",
			ErrMalformedTransaction,
			len(tx.Witnesses),
		)
	}
	payload := tx.VoteCast.Payload
	switch payload.Type {
	case ledger.PayloadTypePublic:
	case ledger.PayloadTypePrivate:
		return nil, ErrPrivateVote
	default:
		return nil, fmt.Errorf(
			"%w: unknown payload type %d",
			ErrMalformedTransaction,
			payload.Type,
		)
	}
	ret := &VoteCastInfo{
		VotePlan:      tx.VoteCast.VotePlan,
		ProposalIndex: tx.VoteCast.ProposalIndex,
		Voter:         input.Account,
		Choice:        payload.Choice,
	}
	if counter := tx.Witnesses[0].SpendingCounter; counter != nil {
		tmp := *counter
		ret.SpendingCounter = &tmp
	}
	return ret, nil
}
