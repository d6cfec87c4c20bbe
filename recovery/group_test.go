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

package recovery

import (
	"testing"

	"github.com/blinklabs-io/voteaudit/fragment"
	"github.com/blinklabs-io/voteaudit/internal/test/testutil"
	"github.com/stretchr/testify/require"
)

func TestGroupByVoter(t *testing.T) {
	first := testutil.VoteCast(t, 1, 10, 0, 1, testutil.Counter(0))
	second := testutil.VoteCast(t, 2, 10, 0, 2, nil)
	third := testutil.VoteCast(t, 1, 10, 3, 0, testutil.Counter(1))
	entries := []Entry{
		{Fragment: first, SpendingCounter: testutil.Counter(0)},
		{Fragment: fragment.New(fragment.KindVoteTally, []byte{0x80})},
		{Fragment: second},
		{Fragment: third, SpendingCounter: testutil.Counter(1)},
	}
	votes, err := GroupByVoter(entries)
	require.NoError(t, err)
	require.Len(t, votes, 2)

	voter := testutil.AccountID(1).String()
	require.Equal(
		t,
		[]VoteCastRecord{
			{
				SpendingCounter: testutil.Counter(0),
				PublicKey:       testutil.AccountID(1),
				VotePlan:        testutil.VotePlanID(10),
				FragmentID:      testutil.FragmentID(t, first),
				ProposalIndex:   0,
				Choice:          1,
			},
			{
				SpendingCounter: testutil.Counter(1),
				PublicKey:       testutil.AccountID(1),
				VotePlan:        testutil.VotePlanID(10),
				FragmentID:      testutil.FragmentID(t, third),
				ProposalIndex:   3,
				Choice:          0,
			},
		},
		votes[voter],
	)
	other := votes[testutil.AccountID(2).String()]
	require.Len(t, other, 1)
	require.Nil(t, other[0].SpendingCounter)
	require.Equal(t, uint8(2), other[0].Choice)
}

func TestGroupByVoterEmpty(t *testing.T) {
	votes, err := GroupByVoter(nil)
	require.NoError(t, err)
	require.Empty(t, votes)
}

func TestGroupByVoterCopiesCounter(t *testing.T) {
	counter := testutil.Counter(4)
	votes, err := GroupByVoter([]Entry{
		{
			Fragment:        testutil.VoteCast(t, 1, 10, 0, 1, counter),
			SpendingCounter: counter,
		},
	})
	require.NoError(t, err)
	*counter = 9
	record := votes[testutil.AccountID(1).String()][0]
	require.Equal(t, uint32(4), *record.SpendingCounter)
}

func TestGroupByVoterUnsupported(t *testing.T) {
	_, err := GroupByVoter([]Entry{
		{Fragment: testutil.UtxoVoteCast(t, 10)},
	})
	require.ErrorIs(t, err, fragment.ErrUtxoVote)

	_, err = GroupByVoter([]Entry{
		{Fragment: fragment.New(fragment.KindVoteCast, []byte{0xff})},
	})
	require.ErrorIs(t, err, fragment.ErrMalformedTransaction)
}

func TestUnfiltered(t *testing.T) {
	f := testutil.VoteCast(t, 1, 10, 0, 1, testutil.Counter(3))
	entries := Unfiltered([]fragment.LogEntry{{Fragment: f}, {Fragment: f}})
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Same(t, f, entry.Fragment)
		require.Nil(t, entry.SpendingCounter)
	}
}
