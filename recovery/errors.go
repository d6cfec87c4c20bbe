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
	"errors"
	"fmt"

	"github.com/blinklabs-io/voteaudit/fragment"
)

var (
	ErrInvalidBlockRange = errors.New("invalid block range")

	ErrUnsupportedFragment     = errors.New("fragment kind is not a vote cast")
	ErrDuplicateFragment       = errors.New("fragment already seen")
	ErrMalformedFragment       = errors.New("malformed vote cast")
	ErrOutsideBlockRange       = errors.New("fragment outside simulated block range")
	ErrUnknownAccount          = errors.New("account not present in genesis")
	ErrUnknownVotePlan         = errors.New("unknown vote plan")
	ErrInvalidProposal         = errors.New("proposal index out of range")
	ErrOutsideVotingPeriod     = errors.New("fragment outside vote plan voting period")
	ErrStaleSpendingCounter    = errors.New("spending counter already used")
	ErrSpendingCounterConflict = errors.New("spending counter used by another fragment")
	ErrSpendingCounterOverflow = errors.New("spending counter exhausted")
	ErrSupersededVote          = errors.New("vote superseded by a later vote")
)

// Rejection records a logged fragment that the replayed ledger did not
// accept
type Rejection struct {
	Reason     error
	FragmentID fragment.ID
	// Position of the fragment in the input sequence
	Index int
}

func (r Rejection) Error() string {
	return fmt.Sprintf(
		"fragment %s (entry %d) rejected: %s",
		r.FragmentID,
		r.Index,
		r.Reason,
	)
}

func (r Rejection) Unwrap() error {
	return r.Reason
}

// rejectionReason returns a short label used for metrics and summaries
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFragment):
		return "unsupported_fragment"
	case errors.Is(err, ErrDuplicateFragment):
		return "duplicate_fragment"
	case errors.Is(err, ErrMalformedFragment):
		return "malformed"
	case errors.Is(err, ErrOutsideBlockRange):
		return "outside_block_range"
	case errors.Is(err, ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, ErrUnknownVotePlan):
		return "unknown_vote_plan"
	case errors.Is(err, ErrInvalidProposal):
		return "invalid_proposal"
	case errors.Is(err, ErrOutsideVotingPeriod):
		return "outside_voting_period"
	case errors.Is(err, ErrStaleSpendingCounter):
		return "stale_spending_counter"
	case errors.Is(err, ErrSpendingCounterConflict):
		return "spending_counter_conflict"
	case errors.Is(err, ErrSpendingCounterOverflow):
		return "spending_counter_overflow"
	case errors.Is(err, ErrSupersededVote):
		return "superseded"
	default:
		return "other"
	}
}
