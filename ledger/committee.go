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

// CommitteeSet is the set of committee accounts excluded from stake and
// reward accounting
type CommitteeSet map[Address]struct{}

func (c CommitteeSet) Add(addr Address) {
	c[addr] = struct{}{}
}

func (c CommitteeSet) Contains(addr Address) bool {
	_, ok := c[addr]
	return ok
}
