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
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrLedgerInit = errors.New("cannot initialize ledger from genesis")

// State is a read-only view of the genesis ledger used to replay logged
// fragments. It tracks which accounts exist, the vote plans and the time to
// block date mapping.
type State struct {
	block0Date    time.Time
	accounts      map[AccountID]uint64
	votePlans     map[VotePlanID]VotePlan
	slotDuration  time.Duration
	slotsPerEpoch uint32
}

func NewState(genesis *Genesis) (*State, error) {
	if genesis == nil {
		return nil, fmt.Errorf("%w: no genesis provided", ErrLedgerInit)
	}
	cfg := genesis.BlockchainConfiguration
	if cfg.SlotsPerEpoch == 0 {
		return nil, fmt.Errorf("%w: slots per epoch must be non-zero", ErrLedgerInit)
	}
	if cfg.SlotDuration == 0 {
		return nil, fmt.Errorf("%w: slot duration must be non-zero", ErrLedgerInit)
	}
	if cfg.Block0Date > math.MaxInt64 {
		return nil, fmt.Errorf("%w: block0 date out of range", ErrLedgerInit)
	}
	s := &State{
		block0Date:    time.Unix(int64(cfg.Block0Date), 0).UTC(),
		slotDuration:  time.Duration(cfg.SlotDuration) * time.Second,
		slotsPerEpoch: cfg.SlotsPerEpoch,
		accounts:      make(map[AccountID]uint64),
		votePlans:     make(map[VotePlanID]VotePlan),
	}
	for _, fund := range genesis.Funds() {
		if fund.Address.Discrimination != cfg.Discrimination {
			return nil, fmt.Errorf(
				"%w: fund address %s does not match %s discrimination",
				ErrLedgerInit,
				fund.Address,
				cfg.Discrimination,
			)
		}
		if !fund.Address.IsAccount() {
			continue
		}
		balance := s.accounts[fund.Address.Key]
		if balance > math.MaxUint64-fund.Value {
			return nil, fmt.Errorf(
				"%w: balance overflow for account %s",
				ErrLedgerInit,
				fund.Address,
			)
		}
		s.accounts[fund.Address.Key] = balance + fund.Value
	}
	for _, votePlan := range genesis.VotePlans() {
		if err := votePlan.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLedgerInit, err)
		}
		if _, ok := s.votePlans[votePlan.ID]; ok {
			return nil, fmt.Errorf(
				"%w: duplicate vote plan %s",
				ErrLedgerInit,
				votePlan.ID,
			)
		}
		s.votePlans[votePlan.ID] = votePlan
	}
	return s, nil
}

// BlockDateAt returns the block date in effect at the given time. The second
// return value is false for times before block0.
func (s *State) BlockDateAt(t time.Time) (BlockDate, bool) {
	if t.Before(s.block0Date) {
		return BlockDate{}, false
	}
	slotIdx := uint64(t.Sub(s.block0Date) / s.slotDuration)
	epoch := slotIdx / uint64(s.slotsPerEpoch)
	if epoch > math.MaxUint32 {
		return BlockDate{Epoch: math.MaxUint32, Slot: s.slotsPerEpoch - 1}, true
	}
	return BlockDate{
		Epoch: uint32(epoch),
		Slot:  uint32(slotIdx % uint64(s.slotsPerEpoch)),
	}, true
}

// HasAccount returns true if the account was funded in genesis
func (s *State) HasAccount(id AccountID) bool {
	_, ok := s.accounts[id]
	return ok
}

func (s *State) Balance(id AccountID) uint64 {
	return s.accounts[id]
}

func (s *State) VotePlan(id VotePlanID) (VotePlan, bool) {
	ret, ok := s.votePlans[id]
	return ret, ok
}
