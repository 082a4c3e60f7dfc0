package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	DigestSize    = 32
	PublicKeySize = 32
	SecretKeySize = 32
	SignatureSize = 64
)

type Digest [DigestSize]byte

func (d Digest) String() string {
	return base58.Encode(d[:])
}

func (d Digest) Bytes() []byte {
	out := make([]byte, len(d))
	copy(out, d[:])
	return out
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return toBase58JSON(d[:]), nil
}

func NewDigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, errors.Errorf("invalid digest len %d", len(b))
	}
	copy(d[:], b)
	return d, nil
}

func NewDigestFromBase58(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Digest{}, err
	}
	return NewDigestFromBytes(b)
}

func MustDigestFromBase58(s string) Digest {
	d, err := NewDigestFromBase58(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

type SecretKey [SecretKeySize]byte

type PublicKey [PublicKeySize]byte

func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

func (k PublicKey) Bytes() []byte {
	out := make([]byte, len(k))
	copy(out, k[:])
	return out
}

func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	var k PublicKey
	if len(b) != PublicKeySize {
		return k, errors.Errorf("invalid public key len %d", len(b))
	}
	copy(k[:], b)
	return k, nil
}

func NewPublicKeyFromBase58(s string) (PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return PublicKey{}, err
	}
	return NewPublicKeyFromBytes(b)
}

type Signature [SignatureSize]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func (s Signature) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s[:])
	return out
}

func NewSignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureSize {
		return s, errors.Errorf("invalid signature len %d", len(b))
	}
	copy(s[:], b)
	return s, nil
}

func toBase58JSON(b []byte) []byte {
	s := base58.Encode(b)
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	out = append(out, s...)
	out = append(out, '"')
	return out
}

func Keccak256(data []byte) (digest Digest) {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(digest[:0])
	return digest
}

func Sha256(data []byte) (digest Digest) {
	h := sha256.New()
	h.Write(data)
	h.Sum(digest[:0])
	return digest
}

func FastHash(data []byte) (Digest, error) {
	var digest Digest
	h, err := blake2b.New256(nil)
	if err != nil {
		return digest, err
	}
	h.Write(data)
	h.Sum(digest[:0])
	return digest, nil
}

func MustFastHash(data []byte) Digest {
	d, err := FastHash(data)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// SecureHash is Keccak256 over Blake2b256, the address hashing scheme.
func SecureHash(data []byte) (Digest, error) {
	var digest Digest
	fh, err := blake2b.New256(nil)
	if err != nil {
		return digest, err
	}
	fh.Write(data)
	fh.Sum(digest[:0])
	h := sha3.NewLegacyKeccak256()
	h.Write(digest[:DigestSize])
	h.Sum(digest[:0])
	return digest, nil
}

func GenerateSecretKey(seed []byte) SecretKey {
	var sk SecretKey
	copy(sk[:], seed[:SecretKeySize])
	sk[0] &= 248
	sk[31] &= 127
	sk[31] |= 64
	return sk
}

func GeneratePublicKey(sk SecretKey) (PublicKey, error) {
	var pk PublicKey
	s, err := new(edwards25519.Scalar).SetBytesWithClamping(sk[:])
	if err != nil {
		return pk, err
	}
	p := new(edwards25519.Point).ScalarBaseMult(s)
	mont := p.BytesMontgomery()
	copy(pk[:], mont)
	return pk, nil
}

func GenerateKeyPair(seed []byte) (SecretKey, PublicKey, error) {
	h := sha256.New()
	h.Write(seed)
	digest := h.Sum(nil)
	sk := GenerateSecretKey(digest)
	pk, err := GeneratePublicKey(sk)
	return sk, pk, err
}

// Sign produces a signature over data in the Curve25519 scheme: the public
// key is a Montgomery u-coordinate and the sign bit of the Edwards point
// travels in the last byte of the signature.
func Sign(secretKey SecretKey, data []byte) (Signature, error) {
	var sig Signature
	s, err := new(edwards25519.Scalar).SetBytesWithClamping(secretKey[:])
	if err != nil {
		return sig, err
	}
	edPubPoint := new(edwards25519.Point).ScalarBaseMult(s)
	edPub := edPubPoint.Bytes()
	signBit := edPub[31] & 0x80

	prefix := make([]byte, 32)
	for i := range prefix {
		prefix[i] = 0xff
	}
	prefix[0] = 0xfe
	random := make([]byte, 64)
	if _, err := rand.Read(random); err != nil {
		return sig, err
	}

	var messageDigest [64]byte
	h := sha512.New()
	h.Write(prefix)
	h.Write(secretKey[:])
	h.Write(data)
	h.Write(random)
	h.Sum(messageDigest[:0])

	r, err := new(edwards25519.Scalar).SetUniformBytes(messageDigest[:])
	if err != nil {
		return sig, err
	}
	rp := new(edwards25519.Point).ScalarBaseMult(r)
	encodedR := rp.Bytes()

	var hramDigest [64]byte
	h.Reset()
	h.Write(encodedR)
	h.Write(edPub)
	h.Write(data)
	h.Sum(hramDigest[:0])
	k, err := new(edwards25519.Scalar).SetUniformBytes(hramDigest[:])
	if err != nil {
		return sig, err
	}
	sc := new(edwards25519.Scalar).MultiplyAdd(k, s, r)

	copy(sig[:32], encodedR)
	copy(sig[32:], sc.Bytes())
	sig[63] &= 0x7f
	sig[63] |= signBit
	return sig, nil
}

// Verify checks a Curve25519 signature: the Montgomery public key is
// converted to its Edwards form using the sign bit stored in the signature,
// then a regular Ed25519 equation check is performed.
func Verify(publicKey PublicKey, signature Signature, data []byte) bool {
	montX, err := new(field.Element).SetBytes(publicKey[:])
	if err != nil {
		return false
	}
	one := new(field.Element).One()
	montXMinusOne := new(field.Element).Subtract(montX, one)
	montXPlusOne := new(field.Element).Add(montX, one)
	invMontXPlusOne := new(field.Element).Invert(montXPlusOne)
	edY := new(field.Element).Multiply(montXMinusOne, invMontXPlusOne)

	edPub := edY.Bytes()
	edPub[31] &= 0x7f
	edPub[31] |= signature[63] & 0x80
	a, err := new(edwards25519.Point).SetBytes(edPub)
	if err != nil {
		return false
	}

	sb := make([]byte, 32)
	copy(sb, signature[32:])
	sb[31] &= 0x7f
	sc, err := new(edwards25519.Scalar).SetCanonicalBytes(sb)
	if err != nil {
		return false
	}

	var hramDigest [64]byte
	h := sha512.New()
	h.Write(signature[:32])
	h.Write(edPub)
	h.Write(data)
	h.Sum(hramDigest[:0])
	k, err := new(edwards25519.Scalar).SetUniformBytes(hramDigest[:])
	if err != nil {
		return false
	}

	minusA := new(edwards25519.Point).Negate(a)
	// R' = [k](-A) + [s]B must equal R.
	rp := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, sc)
	encodedR := rp.Bytes()
	for i := range encodedR {
		if encodedR[i] != signature[i] {
			return false
		}
	}
	return true
}
