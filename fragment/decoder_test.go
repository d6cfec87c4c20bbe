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
	"testing"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/stretchr/testify/require"
)

func testAccount(seed byte) ledger.AccountID {
	var ret ledger.AccountID
	for i := range ret {
		ret[i] = seed ^ byte(i)
	}
	return ret
}

func testVotePlan(seed byte) ledger.VotePlanID {
	var ret ledger.VotePlanID
	for i := range ret {
		ret[i] = seed + byte(i)
	}
	return ret
}

func counter(v uint32) *uint32 {
	return &v
}

func mustVoteCast(t *testing.T, tx *Transaction) *Fragment {
	t.Helper()
	f, err := NewVoteCast(tx)
	require.NoError(t, err)
	return f
}

func TestDecodeVoteCast(t *testing.T) {
	tx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 7, 1, counter(4))
	f := mustVoteCast(t, tx)

	info, err := DecodeVoteCast(f)
	require.NoError(t, err)
	require.Equal(t, testAccount(1), info.Voter)
	require.Equal(t, testVotePlan(2), info.VotePlan)
	require.Equal(t, uint8(7), info.ProposalIndex)
	require.Equal(t, uint8(1), info.Choice)
	require.NotNil(t, info.SpendingCounter)
	require.Equal(t, uint32(4), *info.SpendingCounter)
}

func TestDecodeVoteCastWithoutCounter(t *testing.T) {
	tx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	info, err := DecodeVoteCast(mustVoteCast(t, tx))
	require.NoError(t, err)
	require.Nil(t, info.SpendingCounter)
}

func TestDecodeVoteCastErrors(t *testing.T) {
	utxoTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	utxoTx.Inputs[0] = Input{Kind: InputKindUtxo, UtxoIndex: 1, Value: 10}

	mixedTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	mixedTx.Inputs = append(mixedTx.Inputs, Input{Kind: InputKindUtxo})

	privateTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	privateTx.VoteCast.Payload = VotePayload{
		Type:          ledger.PayloadTypePrivate,
		EncryptedVote: []byte{0xde, 0xad},
		Proof:         []byte{0xbe, 0xef},
	}

	twoInputsTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	twoInputsTx.Inputs = append(twoInputsTx.Inputs, twoInputsTx.Inputs[0])

	noWitnessTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	noWitnessTx.Witnesses = nil

	unknownPayloadTx := NewAccountVoteCast(testAccount(1), testVotePlan(2), 0, 0, nil)
	unknownPayloadTx.VoteCast.Payload.Type = ledger.PayloadType(9)

	testDefs := []struct {
		name     string
		fragment *Fragment
		expected error
	}{
		{
			name:     "utxo input",
			fragment: mustVoteCast(t, utxoTx),
			expected: ErrUtxoVote,
		},
		{
			name:     "mixed inputs",
			fragment: mustVoteCast(t, mixedTx),
			expected: ErrUtxoVote,
		},
		{
			name:     "private ballot",
			fragment: mustVoteCast(t, privateTx),
			expected: ErrPrivateVote,
		},
		{
			name:     "two account inputs",
			fragment: mustVoteCast(t, twoInputsTx),
			expected: ErrMalformedTransaction,
		},
		{
			name:     "missing witness",
			fragment: mustVoteCast(t, noWitnessTx),
			expected: ErrMalformedTransaction,
		},
		{
			name:     "unknown payload type",
			fragment: mustVoteCast(t, unknownPayloadTx),
			expected: ErrMalformedTransaction,
		},
		{
			name:     "garbage payload",
			fragment: New(KindVoteCast, []byte{0xff, 0x00}),
			expected: ErrMalformedTransaction,
		},
		{
			name:     "not a vote cast",
			fragment: New(KindTransaction, nil),
			expected: ErrNotVoteCast,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := DecodeVoteCast(testDef.fragment)
			require.ErrorIs(t, err, testDef.expected)
		})
	}
}

func TestUnsupportedTransactionErrors(t *testing.T) {
	require.ErrorIs(t, ErrUtxoVote, ErrUnsupportedTransaction)
	require.ErrorIs(t, ErrPrivateVote, ErrUnsupportedTransaction)
	require.NotErrorIs(t, ErrMalformedTransaction, ErrUnsupportedTransaction)
}

func TestFragmentID(t *testing.T) {
	f := mustVoteCast(t, NewAccountVoteCast(testAccount(1), testVotePlan(2), 3, 1, counter(0)))
	id, err := f.ID()
	require.NoError(t, err)

	data, err := f.Cbor()
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	decodedID, err := decoded.ID()
	require.NoError(t, err)
	require.Equal(t, id, decodedID)
	require.Equal(t, f.Kind, decoded.Kind)
	require.Equal(t, f.Payload, decoded.Payload)

	other := mustVoteCast(t, NewAccountVoteCast(testAccount(1), testVotePlan(2), 3, 2, counter(0)))
	otherID, err := other.ID()
	require.NoError(t, err)
	require.NotEqual(t, id, otherID)

	var parsed ID
	require.NoError(t, parsed.UnmarshalText([]byte(id.String())))
	require.Equal(t, id, parsed)
	require.Error(t, parsed.UnmarshalText([]byte("abcd")))
}

func TestDecodeMalformedFragment(t *testing.T) {
	_, err := Decode([]byte{0xff})
	require.ErrorIs(t, err, ErrMalformedFragment)

	// A well formed CBOR value that is not a fragment
	data, err := cbor.Encode("hello")
	require.NoError(t, err)
	_, err = Decode(data)
	require.ErrorIs(t, err, ErrMalformedFragment)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "vote-cast", KindVoteCast.String())
	require.Equal(t, "transaction", KindTransaction.String())
	require.Equal(t, "unknown(99)", Kind(99).String())
}
