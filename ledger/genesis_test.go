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

package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGenesisYaml(t *testing.T) string {
	t.Helper()
	voter := NewAccountAddress(DiscriminationProduction, testKey(1))
	committee := NewAccountAddress(DiscriminationProduction, testKey(2))
	single := Address{Kind: AddressKindSingle, Key: testKey(3)}
	votePlan := VotePlanID(testKey(9))
	return fmt.Sprintf(`
blockchain_configuration:
  block0_date: 1600000000
  discrimination: production
  slots_per_epoch: 100
  slot_duration: 10
  committees:
    - %s
initial:
  - fund:
      - address: %s
        value: 100
      - address: %s
        value: 500
  - fund:
      - address: %s
        value: 50
      - address: %s
        value: 25
  - cert: cert1qqqqqqqqqqqqqqqq
  - cert:
      vote_plan:
        id: %s
        vote_start: 0.0
        vote_end: 1.10
        committee_end: 2.0
        proposals: 3
        payload_type: public
  - legacy_fund:
      - address: Ae2tdPwUPEZ4YjgvykNpoFeYUxoyhNj2kg8KfKWN2FizsSpLUPv68MpTVDo
        value: 1000
`,
		testKey(2),
		voter,
		committee,
		voter,
		single,
		votePlan,
	)
}

func TestLoadGenesis(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "block0.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(testGenesisYaml(t)), 0o644))

	genesis, err := LoadGenesis(tmpFile)
	require.NoError(t, err)

	cfg := genesis.BlockchainConfiguration
	require.Equal(t, uint64(1600000000), cfg.Block0Date)
	require.Equal(t, DiscriminationProduction, cfg.Discrimination)
	require.Equal(t, uint32(100), cfg.SlotsPerEpoch)
	require.Equal(t, uint8(10), cfg.SlotDuration)
	require.Len(t, genesis.Initial, 5)

	funds := genesis.Funds()
	require.Len(t, funds, 4)
	require.Equal(t, NewAccountAddress(DiscriminationProduction, testKey(1)), funds[0].Address)
	require.Equal(t, uint64(500), funds[1].Value)

	require.Equal(t, "cert1qqqqqqqqqqqqqqqq", genesis.Initial[2].Cert.Raw)
	require.Nil(t, genesis.Initial[2].Cert.VotePlan)

	votePlans := genesis.VotePlans()
	require.Len(t, votePlans, 1)
	require.Equal(t, VotePlanID(testKey(9)), votePlans[0].ID)
	require.Equal(t, BlockDate{Epoch: 1, Slot: 10}, votePlans[0].VoteEnd)
	require.Equal(t, 3, votePlans[0].Proposals)
	require.Equal(t, PayloadTypePublic, votePlans[0].PayloadType)

	require.Len(t, genesis.Initial[4].LegacyFund, 1)
	require.Equal(t, uint64(1000), genesis.Initial[4].LegacyFund[0].Value)
}

func TestGenesisEncodeRoundTrip(t *testing.T) {
	genesis, err := DecodeGenesis([]byte(testGenesisYaml(t)))
	require.NoError(t, err)
	encoded, err := genesis.Encode()
	require.NoError(t, err)
	decoded, err := DecodeGenesis(encoded)
	require.NoError(t, err)
	require.Equal(t, genesis, decoded)
}

func TestLoadGenesisErrors(t *testing.T) {
	_, err := LoadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = DecodeGenesis([]byte(`
initial:
  - fund:
      - address: ca1notvalid
        value: 1
`))
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = DecodeGenesis([]byte(`
blockchain_configuration:
  discrimination: staging
`))
	require.Error(t, err)
}

func TestGenesisCommittee(t *testing.T) {
	genesis, err := DecodeGenesis([]byte(testGenesisYaml(t)))
	require.NoError(t, err)
	committee, err := genesis.Committee()
	require.NoError(t, err)
	require.Len(t, committee, 1)
	require.True(
		t,
		committee.Contains(NewAccountAddress(DiscriminationProduction, testKey(2))),
	)
	require.False(
		t,
		committee.Contains(NewAccountAddress(DiscriminationProduction, testKey(1))),
	)
	// Same key under another discrimination is a different account
	require.False(
		t,
		committee.Contains(NewAccountAddress(DiscriminationTest, testKey(2))),
	)

	genesis.BlockchainConfiguration.Committees = []string{"00ff"}
	_, err = genesis.Committee()
	require.ErrorIs(t, err, ErrInvalidCommitteeKey)
}

func TestVotePlanValidate(t *testing.T) {
	valid := VotePlan{
		VoteStart:    BlockDate{Epoch: 0},
		VoteEnd:      BlockDate{Epoch: 1},
		CommitteeEnd: BlockDate{Epoch: 2},
		Proposals:    1,
	}
	require.NoError(t, valid.Validate())
	require.True(t, valid.Contains(BlockDate{Epoch: 0, Slot: 5}))
	require.False(t, valid.Contains(BlockDate{Epoch: 1}))

	reversed := valid
	reversed.VoteEnd = BlockDate{}
	require.ErrorIs(t, reversed.Validate(), ErrInvalidVotePlan)

	committeeEarly := valid
	committeeEarly.CommitteeEnd = BlockDate{Epoch: 0, Slot: 1}
	require.ErrorIs(t, committeeEarly.Validate(), ErrInvalidVotePlan)

	noProposals := valid
	noProposals.Proposals = 0
	require.ErrorIs(t, noProposals.Validate(), ErrInvalidVotePlan)

	tooMany := valid
	tooMany.Proposals = 257
	require.ErrorIs(t, tooMany.Validate(), ErrInvalidVotePlan)
}
