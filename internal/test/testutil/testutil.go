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

// Package testutil provides fixtures shared by the voteaudit package tests:
// deterministic keys, genesis configurations and vote cast fragments.
package testutil

import (
	"testing"
	"time"

	"github.com/blinklabs-io/voteaudit/fragment"
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/stretchr/testify/require"
)

const (
	Block0Date    = 1600000000
	SlotsPerEpoch = 100
	SlotDuration  = 10
)

// AccountID returns a deterministic account key derived from seed
func AccountID(seed byte) ledger.AccountID {
	var ret ledger.AccountID
	for i := range ret {
		ret[i] = seed ^ byte(i*7)
	}
	return ret
}

func AccountAddress(seed byte) ledger.Address {
	return ledger.NewAccountAddress(ledger.DiscriminationProduction, AccountID(seed))
}

// VotePlanID returns a deterministic vote plan identifier derived from seed
func VotePlanID(seed byte) ledger.VotePlanID {
	var ret ledger.VotePlanID
	for i := range ret {
		ret[i] = seed + byte(i*3)
	}
	return ret
}

func Counter(v uint32) *uint32 {
	return &v
}

// VotePlan returns a public vote plan open for voting during epochs 0 and 1
func VotePlan(seed byte, proposals int) ledger.VotePlan {
	return ledger.VotePlan{
		ID:           VotePlanID(seed),
		VoteStart:    ledger.BlockDate{Epoch: 0},
		VoteEnd:      ledger.BlockDate{Epoch: 2},
		CommitteeEnd: ledger.BlockDate{Epoch: 3},
		Proposals:    proposals,
		PayloadType:  ledger.PayloadTypePublic,
	}
}

// Genesis builds a production genesis with the given funds, committee keys
// and vote plans
func Genesis(
	funds []ledger.InitialUtxo,
	committee []ledger.AccountID,
	votePlans []ledger.VotePlan,
) *ledger.Genesis {
	ret := &ledger.Genesis{
		BlockchainConfiguration: ledger.BlockchainConfiguration{
			Block0Date:     Block0Date,
			Discrimination: ledger.DiscriminationProduction,
			SlotsPerEpoch:  SlotsPerEpoch,
			SlotDuration:   SlotDuration,
		},
	}
	for _, key := range committee {
		ret.BlockchainConfiguration.Committees = append(
			ret.BlockchainConfiguration.Committees,
			key.String(),
		)
	}
	if len(funds) > 0 {
		ret.Initial = append(ret.Initial, ledger.Initial{Fund: funds})
	}
	for _, votePlan := range votePlans {
		ret.Initial = append(ret.Initial, ledger.Initial{
			Cert: &ledger.Certificate{VotePlan: &votePlan},
		})
	}
	return ret
}

// Fund returns a fund entry for the account derived from seed
func Fund(seed byte, value uint64) ledger.InitialUtxo {
	return ledger.InitialUtxo{
		Address: AccountAddress(seed),
		Value:   value,
	}
}

// TimeAt returns the wall clock time of a block date on the test genesis
func TimeAt(date ledger.BlockDate) time.Time {
	slot := uint64(date.Epoch)*SlotsPerEpoch + uint64(date.Slot)
	return time.Unix(Block0Date+int64(slot*SlotDuration), 0).UTC()
}

// VoteCast builds a public account vote cast fragment
func VoteCast(
	t *testing.T,
	voter byte,
	votePlan byte,
	proposalIndex uint8,
	choice uint8,
	spendingCounter *uint32,
) *fragment.Fragment {
	t.Helper()
	tx := fragment.NewAccountVoteCast(
		AccountID(voter),
		VotePlanID(votePlan),
		proposalIndex,
		choice,
		spendingCounter,
	)
	ret, err := fragment.NewVoteCast(tx)
	require.NoError(t, err)
	return ret
}

// UtxoVoteCast builds a vote cast fragment spending a utxo input
func UtxoVoteCast(t *testing.T, votePlan byte) *fragment.Fragment {
	t.Helper()
	tx := fragment.NewAccountVoteCast(AccountID(0), VotePlanID(votePlan), 0, 0, nil)
	tx.Inputs[0] = fragment.Input{
		Kind:      fragment.InputKindUtxo,
		UtxoIndex: 0,
		Value:     1,
	}
	ret, err := fragment.NewVoteCast(tx)
	require.NoError(t, err)
	return ret
}

// FragmentID returns the ID of f, failing the test on error
func FragmentID(t *testing.T, f *fragment.Fragment) fragment.ID {
	t.Helper()
	ret, err := f.ID()
	require.NoError(t, err)
	return ret
}
