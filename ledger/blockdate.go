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
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// BlockDate identifies a slot within an epoch
type BlockDate struct {
	Epoch uint32
	Slot  uint32
}

func ParseBlockDate(s string) (BlockDate, error) {
	var ret BlockDate
	epochStr, slotStr, ok := strings.Cut(s, ".")
	if !ok {
		return ret, fmt.Errorf("invalid block date %q: expected <epoch>.<slot>", s)
	}
	epoch, err := strconv.ParseUint(epochStr, 10, 32)
	if err != nil {
		return ret, fmt.Errorf("invalid block date epoch %q: %w", s, err)
	}
	slot, err := strconv.ParseUint(slotStr, 10, 32)
	if err != nil {
		return ret, fmt.Errorf("invalid block date slot %q: %w", s, err)
	}
	ret.Epoch = uint32(epoch)
	ret.Slot = uint32(slot)
	return ret, nil
}

func (d BlockDate) String() string {
	return fmt.Sprintf("%d.%d", d.Epoch, d.Slot)
}

func (d BlockDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *BlockDate) UnmarshalText(data []byte) error {
	tmp, err := ParseBlockDate(string(data))
	if err != nil {
		return err
	}
	*d = tmp
	return nil
}

func (d BlockDate) Compare(other BlockDate) int {
	if c := cmp.Compare(d.Epoch, other.Epoch); c != 0 {
		return c
	}
	return cmp.Compare(d.Slot, other.Slot)
}

func (d BlockDate) Before(other BlockDate) bool {
	return d.Compare(other) < 0
}
