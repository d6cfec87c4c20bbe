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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/blinklabs-io/voteaudit/rewards"
)

var rewardsHeader = []string{
	"Address",
	"Stake of the voter",
	"Reward for the voter (ADA)",
	"Reward for the voter (lovelace)",
}

// WriteRewards writes one CSV row per reward after a header row
func WriteRewards(w io.Writer, allocation []rewards.Reward) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(rewardsHeader); err != nil {
		return fmt.Errorf("failed to write rewards header: %w", err)
	}
	for _, reward := range allocation {
		record := []string{
			reward.Address.String(),
			strconv.FormatUint(reward.Stake, 10),
			reward.WholeUnits(),
			reward.Subunits(),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf(
				"failed to write reward for %s: %w",
				reward.Address,
				err,
			)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
