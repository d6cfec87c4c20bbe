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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"golang.org/x/crypto/blake2b"
)

type Kind uint8

const (
	KindInitial              Kind = 0
	KindOldUtxoDeclaration   Kind = 1
	KindTransaction          Kind = 2
	KindOwnerStakeDelegation Kind = 3
	KindStakeDelegation      Kind = 4
	KindPoolRegistration     Kind = 5
	KindPoolRetirement       Kind = 6
	KindPoolUpdate           Kind = 7
	KindUpdateProposal       Kind = 8
	KindUpdateVote           Kind = 9
	KindVotePlan             Kind = 10
	KindVoteCast             Kind = 11
	KindVoteTally            Kind = 12
	KindEncryptedVoteTally   Kind = 13
)

func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindOldUtxoDeclaration:
		return "old-utxo-declaration"
	case KindTransaction:
		return "transaction"
	case KindOwnerStakeDelegation:
		return "owner-stake-delegation"
	case KindStakeDelegation:
		return "stake-delegation"
	case KindPoolRegistration:
		return "pool-registration"
	case KindPoolRetirement:
		return "pool-retirement"
	case KindPoolUpdate:
		return "pool-update"
	case KindUpdateProposal:
		return "update-proposal"
	case KindUpdateVote:
		return "update-vote"
	case KindVotePlan:
		return "vote-plan"
	case KindVoteCast:
		return "vote-cast"
	case KindVoteTally:
		return "vote-tally"
	case KindEncryptedVoteTally:
		return "encrypted-vote-tally"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

const IDSize = blake2b.Size256

// ID is the content hash of a fragment
type ID [IDSize]byte

func (i ID) String() string {
	return hex.EncodeToString(i[:])
}

func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *ID) UnmarshalText(data []byte) error {
	tmp, err := hex.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decode fragment id: %w", err)
	}
	if len(tmp) != IDSize {
		return fmt.Errorf("fragment id must be %d bytes, got %d", IDSize, len(tmp))
	}
	copy(i[:], tmp)
	return nil
}

// Fragment is a unit of content submitted to the ledger
type Fragment struct {
	cbor.StructAsArray
	Kind    Kind
	Payload []byte
	rawCbor []byte
}

func New(kind Kind, payload []byte) *Fragment {
	return &Fragment{
		Kind:    kind,
		Payload: payload,
	}
}

// NewVoteCast builds a vote cast fragment carrying the given transaction
func NewVoteCast(tx *Transaction) (*Fragment, error) {
	payload, err := cbor.Encode(tx)
	if err != nil {
		return nil, fmt.Errorf("encode vote cast transaction: %w", err)
	}
	return New(KindVoteCast, payload), nil
}

// Decode parses a fragment from its CBOR encoding. The original bytes are
// retained so the fragment ID matches what was logged.
func Decode(data []byte) (*Fragment, error) {
	var ret Fragment
	if _, err := cbor.Decode(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFragment, err)
	}
	ret.rawCbor = make([]byte, len(data))
	copy(ret.rawCbor, data)
	return &ret, nil
}

// Cbor returns the CBOR encoding of the fragment
func (f *Fragment) Cbor() ([]byte, error) {
	if f.rawCbor != nil {
		return f.rawCbor, nil
	}
	data, err := cbor.Encode(f)
	if err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	f.rawCbor = data
	return data, nil
}

// ID returns the blake2b-256 hash of the fragment encoding
func (f *Fragment) ID() (ID, error) {
	data, err := f.Cbor()
	if err != nil {
		return ID{}, err
	}
	return blake2b.Sum256(data), nil
}

func (f *Fragment) IsVoteCast() bool {
	return f.Kind == KindVoteCast
}
