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
	"fmt"

	"github.com/blinklabs-io/voteaudit/fragment"
	"github.com/blinklabs-io/voteaudit/ledger"
)

// Entry is a fragment paired with the spending counter it was accepted
// under, if known
type Entry struct {
	Fragment        *fragment.Fragment
	SpendingCounter *uint32
}

// Unfiltered pairs logged fragments with no spending counter, for grouping
// the votes exactly as they were submitted
func Unfiltered(entries []fragment.LogEntry) []Entry {
	ret := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		ret = append(ret, Entry{Fragment: entry.Fragment})
	}
	return ret
}

type VoteCastRecord struct {
	SpendingCounter *uint32           `json:"spending_counter,omitempty" yaml:"spending_counter,omitempty"`
	PublicKey       ledger.AccountID  `json:"public_key"                 yaml:"public_key"`
	VotePlan        ledger.VotePlanID `json:"voteplan"                   yaml:"voteplan"`
	FragmentID      fragment.ID       `json:"fragment_id"                yaml:"fragment_id"`
	ProposalIndex   uint8             `json:"chain_proposal_index"       yaml:"chain_proposal_index"`
	Choice          uint8             `json:"choice"                     yaml:"choice"`
}

// VotesByVoter maps a voter public key (hex) to the votes cast, in the order
// they were supplied
type VotesByVoter map[string][]VoteCastRecord

// GroupByVoter groups vote cast fragments by voter. Other fragment kinds are
// ignored. A vote cast that cannot be decoded fails the whole grouping.
func GroupByVoter(entries []Entry) (VotesByVoter, error) {
	ret := make(VotesByVoter)
	for idx, entry := range entries {
		if !entry.Fragment.IsVoteCast() {
			continue
		}
		id, err := entry.Fragment.ID()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", idx, err)
		}
		info, err := fragment.DecodeVoteCast(entry.Fragment)
		if err != nil {
			return nil, fmt.Errorf("fragment %s (entry %d): %w", id, idx, err)
		}
		record := VoteCastRecord{
			FragmentID:    id,
			PublicKey:     info.Voter,
			VotePlan:      info.VotePlan,
			ProposalIndex: info.ProposalIndex,
			Choice:        info.Choice,
		}
		if entry.SpendingCounter != nil {
			spendingCounter := *entry.SpendingCounter
			record.SpendingCounter = &spendingCounter
		}
		voter := info.Voter.String()
		ret[voter] = append(ret[voter], record)
	}
	return ret, nil
}
