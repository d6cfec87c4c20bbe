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
	"errors"
	"fmt"

	"github.com/blinklabs-io/voteaudit/ledger"
)

var (
	ErrStakeOverflow       = errors.New("stake total overflows uint64")
	ErrZeroRewardPool      = errors.New("total reward pool is zero")
	ErrZeroStake           = errors.New("account has zero stake")
	ErrScaledStakeOverflow = errors.New("scaled stake total overflows uint64")
)

// AccountError identifies the account that triggered a stake or reward error
type AccountError struct {
	Address ledger.Address
	Err     error
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("account %s: %s", e.Address, e.Err)
}

func (e *AccountError) Unwrap() error {
	return e.Err
}
