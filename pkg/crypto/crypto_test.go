package crypto

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHash(t *testing.T) {
	d, err := FastHash([]byte("blockchain"))
	require.NoError(t, err)
	assert.NotEqual(t, Digest{}, d)
	d2, err := FastHash([]byte("blockchain"))
	require.NoError(t, err)
	assert.Equal(t, d, d2)
	d3, err := FastHash([]byte("blockchains"))
	require.NoError(t, err)
	assert.NotEqual(t, d, d3)
}

func TestSecureHashDiffersFromFastHash(t *testing.T) {
	data := []byte("some data")
	fh, err := FastHash(data)
	require.NoError(t, err)
	sh, err := SecureHash(data)
	require.NoError(t, err)
	assert.NotEqual(t, fh, sh)
	assert.Equal(t, Keccak256(fh[:]), sh)
}

func TestDigestBase58RoundTrip(t *testing.T) {
	d := MustFastHash([]byte("id"))
	s := d.String()
	d2, err := NewDigestFromBase58(s)
	require.NoError(t, err)
	assert.Equal(t, d, d2)
}

func TestNewDigestFromBytesRejectsBadLength(t *testing.T) {
	_, err := NewDigestFromBytes(make([]byte, 31))
	assert.Error(t, err)
	_, err = NewDigestFromBytes(make([]byte, 33))
	assert.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	seed, err := base58.Decode("3TUPTbbpiM5UmZDhMmzdsKKNgMvyHwZQncKWfJrxk3bc")
	require.NoError(t, err)
	sk, pk, err := GenerateKeyPair(seed)
	require.NoError(t, err)
	msg := []byte("transaction body bytes")
	sig, err := Sign(sk, msg)
	require.NoError(t, err)
	assert.True(t, Verify(pk, sig, msg))
	assert.False(t, Verify(pk, sig, []byte("other bytes")))
	sig[0] ^= 0x01
	assert.False(t, Verify(pk, sig, msg))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	var pk PublicKey
	var sig Signature
	assert.False(t, Verify(pk, sig, []byte("data")))
}
