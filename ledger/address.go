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
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"gopkg.in/yaml.v3"
)

const (
	ProductionAddressPrefix = "ca"
	TestAddressPrefix       = "ta"

	// Set in the address header byte for test discrimination
	testDiscriminationBit = 0x80

	PublicKeySize = 32
)

type Discrimination uint8

const (
	DiscriminationProduction Discrimination = iota
	DiscriminationTest
)

func (d Discrimination) String() string {
	if d == DiscriminationTest {
		return "test"
	}
	return "production"
}

func (d Discrimination) prefix() string {
	if d == DiscriminationTest {
		return TestAddressPrefix
	}
	return ProductionAddressPrefix
}

func (d *Discrimination) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "production", "":
		*d = DiscriminationProduction
	case "test":
		*d = DiscriminationTest
	default:
		return fmt.Errorf("unknown discrimination: %q", node.Value)
	}
	return nil
}

func (d Discrimination) MarshalYAML() (any, error) {
	return d.String(), nil
}

type AddressKind uint8

const (
	AddressKindSingle   AddressKind = 0x3
	AddressKindGroup    AddressKind = 0x4
	AddressKindAccount  AddressKind = 0x5
	AddressKindMultisig AddressKind = 0x6
)

// AccountID is the public key identifying an account on the ledger
type AccountID [PublicKeySize]byte

func NewAccountIDFromHex(s string) (AccountID, error) {
	var ret AccountID
	data, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("decode account id: %w", err)
	}
	if len(data) != PublicKeySize {
		return ret, fmt.Errorf(
			"account id must be %d bytes, got %d",
			PublicKeySize,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(data []byte) error {
	tmp, err := NewAccountIDFromHex(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

var (
	ErrInvalidAddress     = errors.New("invalid address")
	ErrUnknownAddressKind = errors.New("unknown address kind")
)

// Address is a ledger address. It is comparable and used as a map key for
// stake accounting.
type Address struct {
	Discrimination Discrimination
	Kind           AddressKind
	// Spending key for single and group addresses, account key for account
	// addresses, multisig identifier for multisig addresses
	Key AccountID
	// Delegation key, only set for group addresses
	Group AccountID
}

func NewAccountAddress(discrimination Discrimination, key AccountID) Address {
	return Address{
		Discrimination: discrimination,
		Kind:           AddressKindAccount,
		Key:            key,
	}
}

// IsAccount returns true for account-based (non-UTXO) addresses
func (a Address) IsAccount() bool {
	return a.Kind == AddressKindAccount
}

// Bytes returns the binary form of the address: a header byte carrying the
// kind and discrimination followed by the key material
func (a Address) Bytes() []byte {
	header := byte(a.Kind)
	if a.Discrimination == DiscriminationTest {
		header |= testDiscriminationBit
	}
	ret := make([]byte, 0, 1+2*PublicKeySize)
	ret = append(ret, header)
	ret = append(ret, a.Key[:]...)
	if a.Kind == AddressKindGroup {
		ret = append(ret, a.Group[:]...)
	}
	return ret
}

// Bech32 returns the bech32 text form of the address
func (a Address) Bech32() (string, error) {
	convData, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert bits: %w", err)
	}
	encoded, err := bech32.Encode(a.Discrimination.prefix(), convData)
	if err != nil {
		return "", fmt.Errorf("failed to encode bech32: %w", err)
	}
	return encoded, nil
}

func (a Address) String() string {
	ret, err := a.Bech32()
	if err != nil {
		return hex.EncodeToString(a.Bytes())
	}
	return ret
}

func (a Address) MarshalText() ([]byte, error) {
	ret, err := a.Bech32()
	if err != nil {
		return nil, err
	}
	return []byte(ret), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	tmp, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// ParseAddress decodes a bech32 address
func ParseAddress(s string) (Address, error) {
	var ret Address
	// Group addresses exceed the 90 character limit of BIP-0173
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return ret, fmt.Errorf("%w: %s: %w", ErrInvalidAddress, s, err)
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return ret, fmt.Errorf("%w: %s: %w", ErrInvalidAddress, s, err)
	}
	return addressFromBytes(hrp, decoded)
}

func addressFromBytes(hrp string, data []byte) (Address, error) {
	var ret Address
	if len(data) == 0 {
		return ret, fmt.Errorf("%w: empty payload", ErrInvalidAddress)
	}
	header := data[0]
	if header&testDiscriminationBit != 0 {
		ret.Discrimination = DiscriminationTest
	}
	if hrp != ret.Discrimination.prefix() {
		return ret, fmt.Errorf(
			"%w: prefix %q does not match %s discrimination",
			ErrInvalidAddress,
			hrp,
			ret.Discrimination,
		)
	}
	ret.Kind = AddressKind(header &^ testDiscriminationBit)
	payload := data[1:]
	expectedLen := PublicKeySize
	switch ret.Kind {
	case AddressKindSingle, AddressKindAccount, AddressKindMultisig:
	case AddressKindGroup:
		expectedLen = 2 * PublicKeySize
	default:
		return ret, fmt.Errorf("%w: 0x%x", ErrUnknownAddressKind, byte(ret.Kind))
	}
	if len(payload) != expectedLen {
		return ret, fmt.Errorf(
			"%w: expected %d byte payload, got %d",
			ErrInvalidAddress,
			expectedLen,
			len(payload),
		)
	}
	copy(ret.Key[:], payload[:PublicKeySize])
	if ret.Kind == AddressKindGroup {
		copy(ret.Group[:], payload[PublicKeySize:])
	}
	return ret, nil
}

// Compare orders addresses by their binary form
func (a Address) Compare(other Address) int {
	return bytes.Compare(a.Bytes(), other.Bytes())
}
