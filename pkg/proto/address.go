package proto

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/crypto"
)

const (
	headerSize   = 2
	bodySize     = 20
	checksumSize = 4
	AddressSize  = headerSize + bodySize + checksumSize

	addressVersion byte = 0x01

	aliasVersion   byte = 0x02
	AliasMinLength      = 4
	AliasMaxLength      = 30
	aliasAlphabet       = "-.0123456789@_abcdefghijklmnopqrstuvwxyz"
	aliasPrefix         = "alias"
)

// Address is a 26-byte value with an embedded version byte, network scheme
// byte and checksum. Validated on construction.
type Address [AddressSize]byte

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	out := make([]byte, len(a))
	copy(out, a[:])
	return out
}

// Scheme returns the network byte embedded in the address.
func (a Address) Scheme() byte {
	return a[1]
}

func NewAddressFromPublicKey(scheme byte, publicKey crypto.PublicKey) (Address, error) {
	var a Address
	a[0] = addressVersion
	a[1] = scheme
	h, err := crypto.SecureHash(publicKey[:])
	if err != nil {
		return a, errors.Wrap(err, "failed to produce Digest from PublicKey")
	}
	copy(a[headerSize:], h[:bodySize])
	cs, err := addressChecksum(a[:headerSize+bodySize])
	if err != nil {
		return a, errors.Wrap(err, "failed to calculate Address checksum")
	}
	copy(a[headerSize+bodySize:], cs)
	return a, nil
}

func NewAddressFromBytes(b []byte) (Address, error) {
	var a Address
	if l := len(b); l != AddressSize {
		return a, errors.Errorf("incorrect Address size %d, expected %d", l, AddressSize)
	}
	copy(a[:], b)
	if ok, err := a.Valid(); !ok {
		return a, errors.Wrap(err, "invalid address")
	}
	return a, nil
}

func NewAddressFromString(s string) (Address, error) {
	var a Address
	b, err := base58.Decode(s)
	if err != nil {
		return a, errors.Wrap(err, "invalid Base58 string")
	}
	return NewAddressFromBytes(b)
}

func MustAddressFromString(s string) Address {
	a, err := NewAddressFromString(s)
	if err != nil {
		panic(err.Error())
	}
	return a
}

// Valid checks the address version and checksum.
func (a Address) Valid() (bool, error) {
	if a[0] != addressVersion {
		return false, errors.Errorf("unsupported address version %d", a[0])
	}
	cs, err := addressChecksum(a[:headerSize+bodySize])
	if err != nil {
		return false, err
	}
	if !bytes.Equal(cs, a[headerSize+bodySize:]) {
		return false, errors.New("invalid checksum")
	}
	return true, nil
}

func addressChecksum(b []byte) ([]byte, error) {
	h, err := crypto.SecureHash(b)
	if err != nil {
		return nil, err
	}
	c := make([]byte, checksumSize)
	copy(c, h[:checksumSize])
	return c, nil
}

// Alias is a short, human-readable name bound to an address. The name is
// 4 to 30 characters long over a restricted alphabet.
type Alias struct {
	Version byte
	Scheme  byte
	Alias   string
}

func NewAlias(scheme byte, alias string) (*Alias, error) {
	a := &Alias{Version: aliasVersion, Scheme: scheme, Alias: alias}
	if ok, err := a.Valid(); !ok {
		return nil, err
	}
	return a, nil
}

func (a Alias) String() string {
	return fmt.Sprintf("%s:%c:%s", aliasPrefix, a.Scheme, a.Alias)
}

func (a Alias) Valid() (bool, error) {
	if a.Version != aliasVersion {
		return false, errors.Errorf("unsupported alias version %d", a.Version)
	}
	if l := len(a.Alias); l < AliasMinLength || l > AliasMaxLength {
		return false, errors.Errorf("alias length should be between %d and %d", AliasMinLength, AliasMaxLength)
	}
	if !correctAliasAlphabet(a.Alias) {
		return false, errors.Errorf("alias should contain only following characters: %s", aliasAlphabet)
	}
	return true, nil
}

// Bytes returns the alias body used in id hashing: version, scheme and the
// name itself.
func (a Alias) Bytes() []byte {
	b := make([]byte, 0, 2+len(a.Alias))
	b = append(b, a.Version, a.Scheme)
	b = append(b, a.Alias...)
	return b
}

func correctAliasAlphabet(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(aliasAlphabet, c) {
			return false
		}
	}
	return true
}

// Recipient is either an address or an alias that resolves to one.
type Recipient struct {
	Address *Address
	Alias   *Alias
}

func NewRecipientFromAddress(a Address) Recipient {
	return Recipient{Address: &a}
}

func NewRecipientFromAlias(a Alias) Recipient {
	return Recipient{Alias: &a}
}

func (r Recipient) String() string {
	if r.Address != nil {
		return r.Address.String()
	}
	if r.Alias != nil {
		return r.Alias.String()
	}
	return ""
}

// Bytes returns a deterministic byte form used in id hashing: the address
// bytes or the alias body.
func (r Recipient) Bytes() []byte {
	if r.Address != nil {
		return r.Address.Bytes()
	}
	if r.Alias != nil {
		return r.Alias.Bytes()
	}
	return nil
}

func (r Recipient) Valid() (bool, error) {
	switch {
	case r.Address != nil:
		return r.Address.Valid()
	case r.Alias != nil:
		return r.Alias.Valid()
	default:
		return false, errors.New("empty recipient")
	}
}
