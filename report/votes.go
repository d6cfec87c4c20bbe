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
	"encoding/json"
	"fmt"
	"io"

	"github.com/blinklabs-io/voteaudit/recovery"
	"gopkg.in/yaml.v3"
)

// VotesReport pairs the votes found in the logs with the votes that survive
// the ledger replay
type VotesReport struct {
	Original recovery.VotesByVoter `json:"original"           yaml:"original"`
	Filtered recovery.VotesByVoter `json:"filtered"           yaml:"filtered"`
	Rejected map[string]int        `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

func WriteVotes(w io.Writer, votes *VotesReport, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(votes); err != nil {
			return fmt.Errorf("failed to encode votes report: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		out, err := json.MarshalIndent(votes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode votes report: %w", err)
		}
		out = append(out, '\n')
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("failed to write votes report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
