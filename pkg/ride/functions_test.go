package ride

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

func testEnv() *EvaluationEnvironment {
	return &EvaluationEnvironment{
		Scheme:          'W',
		Height:          100,
		Lib:             settings.StdLibV5,
		FixUnicode:      true,
		NewPowPrecision: true,
	}
}

func TestBase58RoundTrip(t *testing.T) {
	env := testEnv()
	for _, size := range []int{0, 1, 16, 32, 64} {
		b := bytes.Repeat([]byte{0xa5}, size)
		s, err := toBase58(env, rideByteVector(b))
		require.NoError(t, err)
		back, err := fromBase58(env, s)
		require.NoError(t, err)
		assert.True(t, rideByteVector(b).eq(back), "size %d", size)
	}
}

func TestBase58EncodeLimit(t *testing.T) {
	env := testEnv()
	_, err := toBase58(env, rideByteVector(make([]byte, 65)))
	require.Error(t, err)
	assert.Equal(t, LimitExceeded, GetEvaluationErrorType(err))
}

func TestBase58DecodeLimit(t *testing.T) {
	env := testEnv()
	long := make([]byte, 101)
	for i := range long {
		long[i] = '1'
	}
	_, err := fromBase58(env, rideString(long))
	require.Error(t, err)
	assert.Equal(t, LimitExceeded, GetEvaluationErrorType(err))
}

func TestBase64RoundTrip(t *testing.T) {
	env := testEnv()
	for _, size := range []int{0, 1, 100, 32 * 1024} {
		b := bytes.Repeat([]byte{0x5a}, size)
		s, err := toBase64(env, rideByteVector(b))
		require.NoError(t, err)
		back, err := fromBase64(env, s)
		require.NoError(t, err)
		assert.True(t, rideByteVector(b).eq(back), "size %d", size)
	}
}

func TestFromBase64WithPrefix(t *testing.T) {
	env := testEnv()
	back, err := fromBase64(env, rideString("base64:AQID"))
	require.NoError(t, err)
	assert.True(t, rideByteVector([]byte{1, 2, 3}).eq(back))
}

func TestLongToBytesRoundTrip(t *testing.T) {
	env := testEnv()
	for _, n := range []int64{0, 1, -1, 42, math.MaxInt64, math.MinInt64} {
		b, err := longToBytes(env, rideInt(n))
		require.NoError(t, err)
		back, err := bytesToLong(env, b)
		require.NoError(t, err)
		assert.Equal(t, rideInt(n), back)
	}
}

func TestBytesToLongRequiresEightBytes(t *testing.T) {
	env := testEnv()
	_, err := bytesToLong(env, rideByteVector{1, 2, 3})
	assert.Error(t, err)
}

func TestUtf8RoundTrip(t *testing.T) {
	env := testEnv()
	for _, s := range []string{"", "waves", "привет", "日本語テキスト"} {
		b, err := stringToBytes(env, rideString(s))
		require.NoError(t, err)
		back, err := utf8String(env, b)
		require.NoError(t, err)
		assert.Equal(t, rideString(s), back)
	}
}

func TestUtf8StringRejectsInvalidSequence(t *testing.T) {
	env := testEnv()
	_, err := utf8String(env, rideByteVector{0xff, 0xfe})
	assert.Error(t, err)
}

func TestTakeDropBytesSaturate(t *testing.T) {
	env := testEnv()
	b := rideByteVector{1, 2, 3}

	r, err := takeBytes(env, b, rideInt(2))
	require.NoError(t, err)
	assert.True(t, rideByteVector{1, 2}.eq(r))

	// Taking more bytes than present saturates to the whole vector.
	r, err = takeBytes(env, b, rideInt(10))
	require.NoError(t, err)
	assert.True(t, b.eq(r))

	r, err = takeBytes(env, b, rideInt(-5))
	require.NoError(t, err)
	assert.True(t, rideByteVector{}.eq(r))

	r, err = dropBytes(env, b, rideInt(10))
	require.NoError(t, err)
	assert.True(t, rideByteVector{}.eq(r))

	r, err = dropBytes(env, b, rideInt(1))
	require.NoError(t, err)
	assert.True(t, rideByteVector{2, 3}.eq(r))
}

func TestTakeDropStringUnicode(t *testing.T) {
	env := testEnv()
	r, err := takeString(env, rideString("привет"), rideInt(3))
	require.NoError(t, err)
	assert.Equal(t, rideString("при"), r)

	r, err = dropString(env, rideString("привет"), rideInt(3))
	require.NoError(t, err)
	assert.Equal(t, rideString("вет"), r)

	r, err = takeString(env, rideString("short"), rideInt(100))
	require.NoError(t, err)
	assert.Equal(t, rideString("short"), r)
}

func TestIndexOfReturnsUnitWhenAbsent(t *testing.T) {
	env := testEnv()
	r, err := indexOf(env, rideString("haystack"), rideString("stack"))
	require.NoError(t, err)
	assert.Equal(t, rideInt(3), r)

	r, err = indexOf(env, rideString("haystack"), rideString("needle"))
	require.NoError(t, err)
	assert.Equal(t, rideUnit{}, r)
}

func TestSplitStr(t *testing.T) {
	env := testEnv()
	r, err := splitStr(env, rideString("a,b,c"), rideString(","))
	require.NoError(t, err)
	assert.True(t, rideList{rideString("a"), rideString("b"), rideString("c")}.eq(r))
}

func TestParseIntValue(t *testing.T) {
	env := testEnv()
	r, err := parseIntValue(env, rideString("12345"))
	require.NoError(t, err)
	assert.Equal(t, rideInt(12345), r)

	_, err = parseIntValue(env, rideString("not a number"))
	require.Error(t, err)
	assert.Equal(t, UserError, GetEvaluationErrorType(err))
}

func TestArithmetic(t *testing.T) {
	env := testEnv()
	r, err := sumLong(env, rideInt(2), rideInt(3))
	require.NoError(t, err)
	assert.Equal(t, rideInt(5), r)

	_, err = sumLong(env, rideInt(math.MaxInt64), rideInt(1))
	assert.Error(t, err)

	r, err = divLong(env, rideInt(-7), rideInt(2))
	require.NoError(t, err)
	assert.Equal(t, rideInt(-4), r)

	r, err = modLong(env, rideInt(-7), rideInt(2))
	require.NoError(t, err)
	assert.Equal(t, rideInt(1), r)

	_, err = divLong(env, rideInt(1), rideInt(0))
	assert.Error(t, err)

	r, err = fractionLong(env, rideInt(6_000_000_000), rideInt(3), rideInt(2))
	require.NoError(t, err)
	assert.Equal(t, rideInt(9_000_000_000), r)

	// Fraction rounds toward negative infinity.
	r, err = fractionLong(env, rideInt(-7), rideInt(1), rideInt(2))
	require.NoError(t, err)
	assert.Equal(t, rideInt(-4), r)

	_, err = fractionLong(env, rideInt(math.MaxInt64), rideInt(math.MaxInt64), rideInt(1))
	assert.Error(t, err)
}

func TestPowAndLog(t *testing.T) {
	env := testEnv()
	down := newRideObject("Down")
	r, err := pow(env, rideInt(2), rideInt(0), rideInt(10), rideInt(0), rideInt(0), down)
	require.NoError(t, err)
	assert.Equal(t, rideInt(1024), r)

	// sqrt(2) at scale 4: pow(2, 0, 5, 1, 4, HalfUp) = 1.4142.
	halfUp := newRideObject("HalfUp")
	r, err = pow(env, rideInt(2), rideInt(0), rideInt(5), rideInt(1), rideInt(4), halfUp)
	require.NoError(t, err)
	assert.Equal(t, rideInt(14142), r)

	halfEven := newRideObject("HalfEven")
	r, err = log(env, rideInt(16), rideInt(0), rideInt(2), rideInt(0), rideInt(0), halfEven)
	require.NoError(t, err)
	assert.Equal(t, rideInt(4), r)
}

func TestHashFunctions(t *testing.T) {
	env := testEnv()
	data := rideByteVector("blockchain data")
	b, err := blake2b256(env, data)
	require.NoError(t, err)
	expected, err2 := crypto.FastHash([]byte("blockchain data"))
	require.NoError(t, err2)
	assert.True(t, rideByteVector(expected.Bytes()).eq(b))

	k, err := keccak256(env, data)
	require.NoError(t, err)
	assert.False(t, b.eq(k))

	s, err := sha256(env, data)
	require.NoError(t, err)
	assert.False(t, b.eq(s))
	assert.False(t, k.eq(s))
}

func TestSigVerify(t *testing.T) {
	env := testEnv()
	sk, pk, err := crypto.GenerateKeyPair([]byte("sig verify seed"))
	require.NoError(t, err)
	msg := []byte("message to sign")
	sig, err := crypto.Sign(sk, msg)
	require.NoError(t, err)

	r, err := sigVerify(env, rideByteVector(msg), rideByteVector(sig.Bytes()), rideByteVector(pk.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, rideBoolean(true), r)

	r, err = sigVerify(env, rideByteVector("other message"), rideByteVector(sig.Bytes()), rideByteVector(pk.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, rideBoolean(false), r)

	r, err = sigVerify(env, rideByteVector(msg), rideByteVector(make([]byte, 10)), rideByteVector(pk.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, rideBoolean(false), r)
}

func TestListFunctions(t *testing.T) {
	env := testEnv()
	l, err := createList(env, rideInt(1), rideList{rideInt(2), rideInt(3)})
	require.NoError(t, err)
	assert.True(t, rideList{rideInt(1), rideInt(2), rideInt(3)}.eq(l))

	item, err := getList(env, l, rideInt(1))
	require.NoError(t, err)
	assert.Equal(t, rideInt(2), item)

	_, err = getList(env, l, rideInt(5))
	assert.Error(t, err)

	l2, err := appendList(env, l.(rideList), rideInt(4))
	require.NoError(t, err)
	assert.Equal(t, rideInt(4), l2.(rideList)[3])

	l3, err := concatList(env, l.(rideList), l2.(rideList))
	require.NoError(t, err)
	size, err := sizeList(env, l3)
	require.NoError(t, err)
	assert.Equal(t, rideInt(7), size)
}

func TestListSizeLimit(t *testing.T) {
	env := testEnv()
	big := make(rideList, maxListSize)
	for i := range big {
		big[i] = rideInt(i)
	}
	_, err := appendList(env, big, rideInt(1))
	require.Error(t, err)
	assert.Equal(t, LimitExceeded, GetEvaluationErrorType(err))
}

func TestThrow(t *testing.T) {
	env := testEnv()
	_, err := throw(env, rideString("boom"))
	require.Error(t, err)
	assert.Equal(t, UserError, GetEvaluationErrorType(err))
	assert.Equal(t, "boom", err.Error())
}
