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
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCommitteeKey = errors.New("invalid committee key")
	ErrInvalidVotePlan     = errors.New("invalid vote plan")
)

// Genesis is the block0 configuration of a voting chain
type Genesis struct {
	BlockchainConfiguration BlockchainConfiguration `yaml:"blockchain_configuration"`
	Initial                 []Initial               `yaml:"initial"`
}

type BlockchainConfiguration struct {
	Committees     []string       `yaml:"committees,omitempty"`
	Block0Date     uint64         `yaml:"block0_date"`
	SlotsPerEpoch  uint32         `yaml:"slots_per_epoch"`
	SlotDuration   uint8          `yaml:"slot_duration"`
	Discrimination Discrimination `yaml:"discrimination"`
}

// Initial is a single entry of the genesis initial state. Exactly one of the
// fields is expected to be set.
type Initial struct {
	Cert       *Certificate  `yaml:"cert,omitempty"`
	Fund       []InitialUtxo `yaml:"fund,omitempty"`
	LegacyFund []LegacyUtxo  `yaml:"legacy_fund,omitempty"`
}

type InitialUtxo struct {
	Address Address `yaml:"address"`
	Value   uint64  `yaml:"value"`
}

// LegacyUtxo is a Byron-era fund entry. The address is kept in its original
// text form as it does not identify an account.
type LegacyUtxo struct {
	Address string `yaml:"address"`
	Value   uint64 `yaml:"value"`
}

// Certificate is a genesis certificate. Only vote plans are decoded; any
// other certificate is kept in its opaque text form.
type Certificate struct {
	VotePlan *VotePlan `yaml:"vote_plan,omitempty"`
	Raw      string    `yaml:"-"`
}

func (c *Certificate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Raw = node.Value
		return nil
	}
	type certificate Certificate
	var tmp certificate
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*c = Certificate(tmp)
	return nil
}

func (c Certificate) MarshalYAML() (any, error) {
	if c.VotePlan == nil {
		return c.Raw, nil
	}
	type certificate Certificate
	return certificate(c), nil
}

type PayloadType uint8

const (
	PayloadTypePublic  PayloadType = 1
	PayloadTypePrivate PayloadType = 2
)

func (p PayloadType) String() string {
	switch p {
	case PayloadTypePublic:
		return "public"
	case PayloadTypePrivate:
		return "private"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

func (p PayloadType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PayloadType) UnmarshalText(data []byte) error {
	switch string(data) {
	case "public", "":
		*p = PayloadTypePublic
	case "private":
		*p = PayloadTypePrivate
	default:
		return fmt.Errorf("unknown payload type: %q", string(data))
	}
	return nil
}

const VotePlanIDSize = 32

type VotePlanID [VotePlanIDSize]byte

func NewVotePlanIDFromHex(s string) (VotePlanID, error) {
	var ret VotePlanID
	data, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("decode vote plan id: %w", err)
	}
	if len(data) != VotePlanIDSize {
		return ret, fmt.Errorf(
			"vote plan id must be %d bytes, got %d",
			VotePlanIDSize,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

func (v VotePlanID) String() string {
	return hex.EncodeToString(v[:])
}

func (v VotePlanID) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *VotePlanID) UnmarshalText(data []byte) error {
	tmp, err := NewVotePlanIDFromHex(string(data))
	if err != nil {
		return err
	}
	*v = tmp
	return nil
}

type VotePlan struct {
	ID           VotePlanID  `yaml:"id"`
	VoteStart    BlockDate   `yaml:"vote_start"`
	VoteEnd      BlockDate   `yaml:"vote_end"`
	CommitteeEnd BlockDate   `yaml:"committee_end"`
	Proposals    int         `yaml:"proposals"`
	PayloadType  PayloadType `yaml:"payload_type"`
}

// Validate checks the vote plan timeline and proposal count
func (v VotePlan) Validate() error {
	if !v.VoteStart.Before(v.VoteEnd) {
		return fmt.Errorf(
			"%w %s: vote start %s is not before vote end %s",
			ErrInvalidVotePlan,
			v.ID,
			v.VoteStart,
			v.VoteEnd,
		)
	}
	if v.CommitteeEnd.Before(v.VoteEnd) {
		return fmt.Errorf(
			"%w %s: committee end %s is before vote end %s",
			ErrInvalidVotePlan,
			v.ID,
			v.CommitteeEnd,
			v.VoteEnd,
		)
	}
	// Proposal indexes are a single byte on the wire
	if v.Proposals < 1 || v.Proposals > 256 {
		return fmt.Errorf(
			"%w %s: proposal count %d out of range",
			ErrInvalidVotePlan,
			v.ID,
			v.Proposals,
		)
	}
	return nil
}

// Contains returns true if the block date falls within the voting period
func (v VotePlan) Contains(date BlockDate) bool {
	return !date.Before(v.VoteStart) && date.Before(v.VoteEnd)
}

func LoadGenesis(path string) (*Genesis, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading genesis file: %w", err)
	}
	return DecodeGenesis(buf)
}

func DecodeGenesis(data []byte) (*Genesis, error) {
	var ret Genesis
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("error parsing genesis: %w", err)
	}
	return &ret, nil
}

func (g *Genesis) Encode() ([]byte, error) {
	return yaml.Marshal(g)
}

// Committee returns the committee accounts declared in the blockchain
// configuration
func (g *Genesis) Committee() (CommitteeSet, error) {
	ret := make(CommitteeSet, len(g.BlockchainConfiguration.Committees))
	for _, keyHex := range g.BlockchainConfiguration.Committees {
		key, err := NewAccountIDFromHex(keyHex)
		if err != nil {
			return nil, fmt.Errorf(
				"%w %q: %w",
				ErrInvalidCommitteeKey,
				keyHex,
				err,
			)
		}
		ret.Add(
			NewAccountAddress(g.BlockchainConfiguration.Discrimination, key),
		)
	}
	return ret, nil
}

// Funds returns all fund entries in declaration order. Certificates and
// legacy funds are not included.
func (g *Genesis) Funds() []InitialUtxo {
	var ret []InitialUtxo
	for _, initial := range g.Initial {
		ret = append(ret, initial.Fund...)
	}
	return ret
}

func (g *Genesis) VotePlans() []VotePlan {
	var ret []VotePlan
	for _, initial := range g.Initial {
		if initial.Cert != nil && initial.Cert.VotePlan != nil {
			ret = append(ret, *initial.Cert.VotePlan)
		}
	}
	return ret
}
