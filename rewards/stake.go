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
	"math/bits"
	"slices"

	"github.com/blinklabs-io/voteaudit/ledger"
)

// StakeTable holds the voting stake of every non-committee account funded in
// genesis
type StakeTable struct {
	PerAccount map[ledger.Address]uint64
	Total      uint64
}

// Addresses returns the accounts of the table in address order
func (t *StakeTable) Addresses() []ledger.Address {
	ret := make([]ledger.Address, 0, len(t.PerAccount))
	for addr := range t.PerAccount {
		ret = append(ret, addr)
	}
	slices.SortFunc(ret, func(a, b ledger.Address) int {
		return a.Compare(b)
	})
	return ret
}

// CalculateStake accumulates the fund entries of genesis, leaving out
// committee accounts and empty entries
func CalculateStake(
	funds []ledger.InitialUtxo,
	committee ledger.CommitteeSet,
) (*StakeTable, error) {
	ret := &StakeTable{
		PerAccount: make(map[ledger.Address]uint64),
	}
	for _, fund := range funds {
		if fund.Value == 0 || committee.Contains(fund.Address) {
			continue
		}
		total, carry := bits.Add64(ret.Total, fund.Value, 0)
		if carry != 0 {
			return nil, &AccountError{
				Address: fund.Address,
				Err:     ErrStakeOverflow,
			}
		}
		// The per-account sum never exceeds the total
		ret.Total = total
		ret.PerAccount[fund.Address] += fund.Value
	}
	return ret, nil
}

// StakeFromGenesis derives the committee from genesis and calculates the
// stake table of its fund entries
func StakeFromGenesis(genesis *ledger.Genesis) (*StakeTable, error) {
	committee, err := genesis.Committee()
	if err != nil {
		return nil, err
	}
	return CalculateStake(genesis.Funds(), committee)
}
