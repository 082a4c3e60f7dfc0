package proto

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/crypto"
)

func TestAddressFromPublicKeyRoundTrip(t *testing.T) {
	pk, err := crypto.NewPublicKeyFromBase58("FB5ErjREo817duEBBQUqUdkgoPctQJEYuG3mU7w3AYjc")
	require.NoError(t, err)
	a, err := NewAddressFromPublicKey('W', pk)
	require.NoError(t, err)
	ok, err := a.Valid()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, byte('W'), a.Scheme())

	b, err := NewAddressFromString(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAddressChecksumDetectsCorruption(t *testing.T) {
	pk, err := crypto.NewPublicKeyFromBase58("FB5ErjREo817duEBBQUqUdkgoPctQJEYuG3mU7w3AYjc")
	require.NoError(t, err)
	a, err := NewAddressFromPublicKey('T', pk)
	require.NoError(t, err)
	corrupted := a.Bytes()
	corrupted[5] ^= 0xff
	_, err = NewAddressFromBytes(corrupted)
	assert.Error(t, err)
}

func TestAliasValidation(t *testing.T) {
	tests := []struct {
		alias string
		valid bool
	}{
		{"glad", true},
		{"node-0", true},
		{"an", false},
		{"aliasaliasaliasaliasaliasaliasa", false},
		{"UPPER", false},
		{"with space", false},
	}
	for _, tc := range tests {
		_, err := NewAlias('W', tc.alias)
		if tc.valid {
			assert.NoError(t, err, tc.alias)
		} else {
			assert.Error(t, err, tc.alias)
		}
	}
}

func TestOptionalAssetFromString(t *testing.T) {
	waves, err := NewOptionalAssetFromString("WAVES")
	require.NoError(t, err)
	assert.False(t, waves.Present)
	assert.Nil(t, waves.ToID())

	d := crypto.MustFastHash([]byte("asset"))
	issued, err := NewOptionalAssetFromString(d.String())
	require.NoError(t, err)
	assert.True(t, issued.Present)
	assert.Equal(t, d, issued.ID)
}

func TestDataEntriesValid(t *testing.T) {
	entries := DataEntries{
		IntegerDataEntry{Key: "a", Value: 1},
		StringDataEntry{Key: "b", Value: "x"},
	}
	require.NoError(t, entries.Valid(100, true))

	dup := DataEntries{
		IntegerDataEntry{Key: "a", Value: 1},
		BooleanDataEntry{Key: "a", Value: true},
	}
	assert.Error(t, dup.Valid(100, true))

	empty := DataEntries{StringDataEntry{Key: "", Value: "x"}}
	assert.Error(t, empty.Valid(100, true))
	assert.NoError(t, empty.Valid(100, false))
}

func TestGenerateLeaseScriptActionID(t *testing.T) {
	txID := crypto.MustFastHash([]byte("invoke tx"))
	pk, err := crypto.NewPublicKeyFromBase58("FB5ErjREo817duEBBQUqUdkgoPctQJEYuG3mU7w3AYjc")
	require.NoError(t, err)
	addr, err := NewAddressFromPublicKey('W', pk)
	require.NoError(t, err)
	rcp := NewRecipientFromAddress(addr)

	amount := int64(10_000_00000000)
	id := GenerateLeaseScriptActionID(rcp, amount, 0, txID)

	// Manual reconstruction of the hashed preimage.
	buf := make([]byte, 0, crypto.DigestSize+4+AddressSize+8)
	buf = append(buf, txID[:]...)
	nonce := make([]byte, 4)
	binary.LittleEndian.PutUint32(nonce, 0)
	buf = append(buf, nonce...)
	buf = append(buf, addr.Bytes()...)
	amt := make([]byte, 8)
	binary.BigEndian.PutUint64(amt, uint64(amount))
	buf = append(buf, amt...)
	assert.Equal(t, crypto.MustFastHash(buf), id)
}

func TestGenerateIssueScriptActionIDIsDeterministic(t *testing.T) {
	txID := crypto.MustFastHash([]byte("tx"))
	a := GenerateIssueScriptActionID("token", "desc", 2, 1000, true, 0, txID)
	b := GenerateIssueScriptActionID("token", "desc", 2, 1000, true, 0, txID)
	c := GenerateIssueScriptActionID("token", "desc", 2, 1000, true, 1, txID)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
