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

package rewards

import (
	"fmt"
	"io"
	"log/slog"
	"math/bits"

	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/shopspring/decimal"
)

// DefaultSubunitsPerUnit is the number of lovelace in one ADA
const DefaultSubunitsPerUnit uint64 = 1_000_000

type Allocator struct {
	Logger          *slog.Logger
	SubunitsPerUnit uint64
}

// Reward is the allocation of one account
type Reward struct {
	Address ledger.Address
	Stake   uint64
	// Scaled total stake divided by the account stake
	InverseShare uint64
	// Reward pool divided by the inverse share
	Amount          float64
	subunitsPerUnit uint64
}

// WholeUnits renders the reward amount with 8 decimal places
func (r Reward) WholeUnits() string {
	return decimal.NewFromFloat(r.Amount).StringFixed(8)
}

// Subunits renders the reward converted to subunits, truncated to an integer
// and printed with 2 decimal places
func (r Reward) Subunits() string {
	subunits := decimal.NewFromFloat(r.Amount).
		Mul(decimal.NewFromUint64(r.subunitsPerUnit)).
		Truncate(0)
	return subunits.StringFixed(2)
}

func (a *Allocator) subunitsPerUnit() uint64 {
	if a.SubunitsPerUnit == 0 {
		return DefaultSubunitsPerUnit
	}
	return a.SubunitsPerUnit
}

// Allocate splits totalRewards between the accounts of the stake table. Each
// account receives totalRewards / floor(Total * SubunitsPerUnit / stake).
// Results are ordered by address.
func (a *Allocator) Allocate(
	table *StakeTable,
	totalRewards uint64,
) ([]Reward, error) {
	logger := a.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if totalRewards == 0 {
		return nil, ErrZeroRewardPool
	}
	subunitsPerUnit := a.subunitsPerUnit()
	hi, scaledTotal := bits.Mul64(table.Total, subunitsPerUnit)
	if hi != 0 {
		return nil, fmt.Errorf(
			"%w: %d * %d",
			ErrScaledStakeOverflow,
			table.Total,
			subunitsPerUnit,
		)
	}
	ret := make([]Reward, 0, len(table.PerAccount))
	for _, addr := range table.Addresses() {
		stake := table.PerAccount[addr]
		if stake == 0 {
			return nil, &AccountError{Address: addr, Err: ErrZeroStake}
		}
		inverseShare := scaledTotal / stake
		reward := Reward{
			Address:         addr,
			Stake:           stake,
			InverseShare:    inverseShare,
			Amount:          float64(totalRewards) / float64(inverseShare),
			subunitsPerUnit: subunitsPerUnit,
		}
		logger.Debug(
			"allocated reward",
			"component", "rewards",
			"address", addr.String(),
			"stake", stake,
			"inverse_share", inverseShare,
		)
		ret = append(ret, reward)
	}
	logger.Info(
		fmt.Sprintf(
			"allocated %d rewards across %d accounts",
			totalRewards,
			len(ret),
		),
		"component", "rewards",
		"total_stake", table.Total,
	)
	return ret, nil
}
