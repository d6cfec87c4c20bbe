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
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/blinklabs-io/voteaudit/fragment"
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

// BlockRange is a half-open range of epochs replayed by the filter
type BlockRange struct {
	Start uint32
	End   uint32
}

func (r BlockRange) Contains(date ledger.BlockDate) bool {
	return date.Epoch >= r.Start && date.Epoch < r.End
}

func (r BlockRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

type FilterConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	Genesis      *ledger.Genesis
	BlockRange   BlockRange
}

// Filter replays logged fragments against the genesis ledger and keeps the
// vote casts the ledger would have accepted, one per voter and proposal
type Filter struct {
	config  FilterConfig
	logger  *slog.Logger
	state   *ledger.State
	metrics filterMetrics
}

type AcceptedFragment struct {
	Entry           fragment.LogEntry
	SpendingCounter uint32
	// Position of the fragment in the input sequence
	Index int
}

type FilterResult struct {
	Accepted []AcceptedFragment
	Rejected []Rejection
}

// Entries returns the accepted fragments with their spending counters, ready
// for grouping
func (r *FilterResult) Entries() []Entry {
	ret := make([]Entry, 0, len(r.Accepted))
	for _, accepted := range r.Accepted {
		spendingCounter := accepted.SpendingCounter
		ret = append(ret, Entry{
			Fragment:        accepted.Entry.Fragment,
			SpendingCounter: &spendingCounter,
		})
	}
	return ret
}

// RejectionCounts returns the number of rejected fragments by reason
func (r *FilterResult) RejectionCounts() map[string]int {
	ret := make(map[string]int)
	for _, rejection := range r.Rejected {
		ret[rejectionReason(rejection.Reason)]++
	}
	return ret
}

func NewFilter(cfg FilterConfig) (*Filter, error) {
	if cfg.BlockRange.Start >= cfg.BlockRange.End {
		return nil, fmt.Errorf(
			"%w: %w %s",
			ledger.ErrLedgerInit,
			ErrInvalidBlockRange,
			cfg.BlockRange,
		)
	}
	state, err := ledger.NewState(cfg.Genesis)
	if err != nil {
		return nil, err
	}
	f := &Filter{
		config: cfg,
		state:  state,
		logger: cfg.Logger,
	}
	if f.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		f.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	f.metrics.init(cfg.PromRegistry)
	return f, nil
}

type voteKey struct {
	voter         ledger.AccountID
	votePlan      ledger.VotePlanID
	proposalIndex uint8
}

type accountLane struct {
	// Candidate holding the last accepted counter
	lastIdx int
	last    uint32
}

type candidate struct {
	accepted AcceptedFragment
	id       fragment.ID
	rejected bool
}

type filterRun struct {
	filter     *Filter
	seen       map[fragment.ID]struct{}
	lanes      map[ledger.AccountID]accountLane
	votes      map[voteKey]int
	candidates []candidate
	rejected   []Rejection
}

// Run replays the entries in order. The only error returned is a vote cast
// the filter cannot audit (utxo input or private ballot); any other problem
// with a fragment is recorded as a rejection.
func (f *Filter) Run(entries []fragment.LogEntry) (*FilterResult, error) {
	run := &filterRun{
		filter: f,
		seen:   make(map[fragment.ID]struct{}),
		lanes:  make(map[ledger.AccountID]accountLane),
		votes:  make(map[voteKey]int),
	}
	for idx, entry := range entries {
		f.metrics.fragmentsProcessed.Inc()
		if err := run.apply(idx, entry); err != nil {
			f.logger.Error(
				"vote filter aborted",
				"component", "recovery",
				"entry", idx,
				"error", err,
			)
			return nil, err
		}
	}
	ret := &FilterResult{
		Accepted: make([]AcceptedFragment, 0, len(run.candidates)),
		Rejected: run.rejected,
	}
	for _, c := range run.candidates {
		if c.rejected {
			continue
		}
		ret.Accepted = append(ret.Accepted, c.accepted)
	}
	slices.SortStableFunc(ret.Rejected, func(a, b Rejection) int {
		return a.Index - b.Index
	})
	f.metrics.fragmentsAccepted.Add(float64(len(ret.Accepted)))
	f.logger.Info(
		fmt.Sprintf(
			"replayed %d fragments: %d accepted, %d rejected",
			len(entries),
			len(ret.Accepted),
			len(ret.Rejected),
		),
		"component", "recovery",
		"block_range", f.config.BlockRange.String(),
	)
	return ret, nil
}

func (r *filterRun) reject(idx int, id fragment.ID, reason error) {
	rejection := Rejection{
		Index:      idx,
		FragmentID: id,
		Reason:     reason,
	}
	r.rejected = append(r.rejected, rejection)
	r.filter.metrics.fragmentsRejected.WithLabelValues(rejectionReason(reason)).Inc()
	r.filter.logger.Debug(
		"rejected fragment",
		"component", "recovery",
		"fragment_id", id.String(),
		"entry", idx,
		"reason", reason.Error(),
	)
}

func (r *filterRun) rejectCandidate(candIdx int, reason error) {
	c := &r.candidates[candIdx]
	if c.rejected {
		return
	}
	c.rejected = true
	r.reject(c.accepted.Index, c.id, reason)
}

func (r *filterRun) apply(idx int, entry fragment.LogEntry) error {
	state := r.filter.state
	id, err := entry.Fragment.ID()
	if err != nil {
		r.reject(idx, id, fmt.Errorf("%w: %w", ErrMalformedFragment, err))
		return nil
	}
	if !entry.Fragment.IsVoteCast() {
		r.reject(
			idx,
			id,
			fmt.Errorf("%w: %s", ErrUnsupportedFragment, entry.Fragment.Kind),
		)
		return nil
	}
	// Only fragments applied to the ledger count as seen
	if _, ok := r.seen[id]; ok {
		r.reject(idx, id, ErrDuplicateFragment)
		return nil
	}
	info, err := fragment.DecodeVoteCast(entry.Fragment)
	if err != nil {
		if errors.Is(err, fragment.ErrUnsupportedTransaction) {
			return fmt.Errorf("fragment %s (entry %d): %w", id, idx, err)
		}
		r.reject(idx, id, fmt.Errorf("%w: %w", ErrMalformedFragment, err))
		return nil
	}
	// Raw entries carry no time, so only time independent checks apply
	hasTime := !entry.Time.IsZero()
	var date ledger.BlockDate
	if hasTime {
		var afterBlock0 bool
		date, afterBlock0 = state.BlockDateAt(entry.Time)
		if !afterBlock0 {
			r.reject(
				idx,
				id,
				fmt.Errorf(
					"%w: received at %s, before block0",
					ErrOutsideBlockRange,
					entry.Time.UTC().Format(time.RFC3339),
				),
			)
			return nil
		}
		if !r.filter.config.BlockRange.Contains(date) {
			r.reject(
				idx,
				id,
				fmt.Errorf("%w: block date %s", ErrOutsideBlockRange, date),
			)
			return nil
		}
	}
	if !state.HasAccount(info.Voter) {
		r.reject(
			idx,
			id,
			fmt.Errorf("%w: %s", ErrUnknownAccount, info.Voter),
		)
		return nil
	}
	votePlan, ok := state.VotePlan(info.VotePlan)
	if !ok {
		r.reject(
			idx,
			id,
			fmt.Errorf("%w: %s", ErrUnknownVotePlan, info.VotePlan),
		)
		return nil
	}
	if int(info.ProposalIndex) >= votePlan.Proposals {
		r.reject(
			idx,
			id,
			fmt.Errorf(
				"%w: index %d, vote plan %s has %d proposals",
				ErrInvalidProposal,
				info.ProposalIndex,
				votePlan.ID,
				votePlan.Proposals,
			),
		)
		return nil
	}
	if hasTime && !votePlan.Contains(date) {
		r.reject(
			idx,
			id,
			fmt.Errorf(
				"%w: block date %s, voting period %s..%s",
				ErrOutsideVotingPeriod,
				date,
				votePlan.VoteStart,
				votePlan.VoteEnd,
			),
		)
		return nil
	}
	lane, hasLane := r.lanes[info.Voter]
	var spendingCounter uint32
	switch {
	case info.SpendingCounter != nil:
		spendingCounter = *info.SpendingCounter
		if hasLane && spendingCounter < lane.last {
			r.reject(
				idx,
				id,
				fmt.Errorf(
					"%w: counter %d, last accepted %d",
					ErrStaleSpendingCounter,
					spendingCounter,
					lane.last,
				),
			)
			return nil
		}
		if hasLane && spendingCounter == lane.last {
			// Two fragments claim the same counter: neither is trusted
			reason := fmt.Errorf(
				"%w: counter %d",
				ErrSpendingCounterConflict,
				spendingCounter,
			)
			r.rejectCandidate(lane.lastIdx, reason)
			r.reject(idx, id, reason)
			return nil
		}
	case hasLane:
		if lane.last == math.MaxUint32 {
			r.reject(idx, id, ErrSpendingCounterOverflow)
			return nil
		}
		spendingCounter = lane.last + 1
	}
	r.seen[id] = struct{}{}
	candIdx := len(r.candidates)
	r.candidates = append(r.candidates, candidate{
		id: id,
		accepted: AcceptedFragment{
			Entry:           entry,
			SpendingCounter: spendingCounter,
			Index:           idx,
		},
	})
	r.lanes[info.Voter] = accountLane{
		last:    spendingCounter,
		lastIdx: candIdx,
	}
	key := voteKey{
		voter:         info.Voter,
		votePlan:      info.VotePlan,
		proposalIndex: info.ProposalIndex,
	}
	if prevIdx, ok := r.votes[key]; ok {
		r.rejectCandidate(
			prevIdx,
			fmt.Errorf(
				"%w: fragment %s",
				ErrSupersededVote,
				id,
			),
		)
	}
	r.votes[key] = candIdx
	return nil
}
