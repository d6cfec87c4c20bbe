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

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/voteaudit/internal/test/testutil"
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/blinklabs-io/voteaudit/recovery"
	"github.com/blinklabs-io/voteaudit/rewards"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input    string
		expected Format
		err      error
	}{
		{input: "json", expected: FormatJSON},
		{input: "YAML", expected: FormatYAML},
		{input: "", expected: FormatJSON},
		{input: "csv", err: ErrUnknownFormat},
	}
	for _, testCase := range testCases {
		format, err := ParseFormat(testCase.input)
		if testCase.err != nil {
			require.ErrorIs(t, err, testCase.err, "input %q", testCase.input)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, testCase.expected, format)
	}
}

func testVotesReport(t *testing.T) *VotesReport {
	t.Helper()
	first := testutil.VoteCast(t, 1, 10, 0, 1, testutil.Counter(1))
	second := testutil.VoteCast(t, 1, 10, 0, 2, testutil.Counter(2))
	original, err := recovery.GroupByVoter([]recovery.Entry{
		{Fragment: first},
		{Fragment: second},
	})
	require.NoError(t, err)
	filtered, err := recovery.GroupByVoter([]recovery.Entry{
		{Fragment: second, SpendingCounter: testutil.Counter(2)},
	})
	require.NoError(t, err)
	return &VotesReport{
		Original: original,
		Filtered: filtered,
		Rejected: map[string]int{"superseded": 1},
	}
}

func TestWriteVotesJSON(t *testing.T) {
	votes := testVotesReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteVotes(&buf, votes, FormatJSON))

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Contains(t, decoded, "original")
	require.Contains(t, decoded, "filtered")
	require.Contains(t, decoded, "rejected")

	voter := testutil.AccountID(1).String()
	var filtered []map[string]any
	require.NoError(t, json.Unmarshal(decoded["filtered"][voter], &filtered))
	require.Len(t, filtered, 1)
	require.Equal(t, voter, filtered[0]["public_key"])
	require.Equal(t, testutil.VotePlanID(10).String(), filtered[0]["voteplan"])
	require.InDelta(t, 2, filtered[0]["choice"], 0)
	require.InDelta(t, 2, filtered[0]["spending_counter"], 0)
	require.InDelta(t, 0, filtered[0]["chain_proposal_index"], 0)

	var original []map[string]any
	require.NoError(t, json.Unmarshal(decoded["original"][voter], &original))
	require.Len(t, original, 2)
	require.NotContains(t, original[0], "spending_counter")
}

func TestWriteVotesYAML(t *testing.T) {
	votes := testVotesReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteVotes(&buf, votes, FormatYAML))

	var decoded struct {
		Original map[string][]map[string]any `yaml:"original"`
		Filtered map[string][]map[string]any `yaml:"filtered"`
		Rejected map[string]int              `yaml:"rejected"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	voter := testutil.AccountID(1).String()
	require.Len(t, decoded.Original[voter], 2)
	require.Len(t, decoded.Filtered[voter], 1)
	require.Equal(t, voter, decoded.Filtered[voter][0]["public_key"])
	require.Equal(t, 1, decoded.Rejected["superseded"])
}

func TestWriteVotesEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVotes(
		&buf,
		&VotesReport{
			Original: recovery.VotesByVoter{},
			Filtered: recovery.VotesByVoter{},
		},
		FormatJSON,
	)
	require.NoError(t, err)
	require.JSONEq(t, `{"original": {}, "filtered": {}}`, buf.String())

	err = WriteVotes(&buf, &VotesReport{}, Format("xml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteRewards(t *testing.T) {
	table, err := rewards.CalculateStake(
		[]ledger.InitialUtxo{
			testutil.Fund(1, 100),
			testutil.Fund(2, 300),
		},
		ledger.CommitteeSet{},
	)
	require.NoError(t, err)
	allocation, err := (&rewards.Allocator{}).Allocate(table, 4_000_000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRewards(&buf, allocation))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(
		t,
		"Address,Stake of the voter,Reward for the voter (ADA),Reward for the voter (lovelace)",
		lines[0],
	)
	expected := map[string]bool{
		testutil.AccountAddress(1).String() + ",100,1.00000000,1000000.00": true,
	}
	found := false
	for _, line := range lines[1:] {
		if expected[line] {
			found = true
		}
		require.True(t, strings.HasPrefix(line, "ca1"), line)
	}
	require.True(t, found, buf.String())
}

func TestOpenOutput(t *testing.T) {
	stdout, err := OpenOutput("")
	require.NoError(t, err)
	require.NoError(t, stdout.Close())

	path := filepath.Join(t.TempDir(), "report.csv")
	out, err := OpenOutput(path)
	require.NoError(t, err)
	_, err = out.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, out.Close())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "data", string(content))

	_, err = OpenOutput(filepath.Join(t.TempDir(), "missing", "report.csv"))
	require.Error(t, err)
}
