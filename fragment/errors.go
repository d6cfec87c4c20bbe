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

package fragment

import (
	"errors"
	"fmt"
)

var (
	ErrNotVoteCast          = errors.New("fragment is not a vote cast")
	ErrMalformedTransaction = errors.New("malformed vote cast transaction")
	ErrMalformedFragment    = errors.New("malformed fragment")

	// ErrUnsupportedTransaction is a capability restriction: the fragment is
	// a valid vote cast that this tool cannot audit
	ErrUnsupportedTransaction = errors.New("unsupported transaction")
	ErrUtxoVote               = fmt.Errorf(
		"%w: vote cast spends a utxo input",
		ErrUnsupportedTransaction,
	)
	ErrPrivateVote = fmt.Errorf(
		"%w: private vote payloads are not supported",
		ErrUnsupportedTransaction,
	)

	ErrCorruptLogEntry = errors.New("corrupt fragment log entry")
)
