package ride

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
	"github.com/wavesplatform/txdiff/pkg/util"
)

const (
	maxBase58BytesToEncode  = 64
	maxBase58StringToDecode = 100
	maxBase64BytesToEncode  = 32 * 1024
	maxBase64StringToDecode = 44 * 1024
	maxMessageLength        = 32 * 1024
)

type rideFunction func(env *EvaluationEnvironment, args ...rideType) (rideType, error)

type rideConstructor = rideFunction

// allFunctions binds every native id to its implementation; catalogues
// select the per-version subset.
var allFunctions = map[string]rideFunction{
	n(FunctionEq):           eq,
	n(FunctionIsInstanceOf): isInstanceOf,
	n(FunctionThrow):        throw,

	n(FunctionSumLong):      sumLong,
	n(FunctionSubLong):      subLong,
	n(FunctionGtLong):       gtLong,
	n(FunctionGeLong):       geLong,
	n(FunctionMulLong):      mulLong,
	n(FunctionDivLong):      divLong,
	n(FunctionModLong):      modLong,
	n(FunctionFractionLong): fractionLong,
	n(FunctionPow):          pow,
	n(FunctionLog):          log,
	n(FunctionMinusLong):    minusLong,
	n(FunctionNot):          not,

	n(FunctionToBase58):   toBase58,
	n(FunctionFromBase58): fromBase58,
	n(FunctionToBase64):   toBase64,
	n(FunctionFromBase64): fromBase64,

	n(FunctionSumString):         sumString,
	n(FunctionTakeString):        takeString,
	n(FunctionDropString):        dropString,
	n(FunctionSizeString):        sizeString,
	n(FunctionIndexOf):           indexOf,
	n(FunctionIndexOfWithOffset): indexOfWithOffset,
	n(FunctionSplitStr):          splitStr,
	n(FunctionParseIntValue):     parseIntValue,

	n(FunctionLongToBytes):   longToBytes,
	n(FunctionBytesToLong):   bytesToLong,
	n(FunctionStringToBytes): stringToBytes,
	n(FunctionUtf8String):    utf8String,
	n(FunctionTakeBytes):     takeBytes,
	n(FunctionDropBytes):     dropBytes,
	n(FunctionSizeBytes):     sizeBytes,
	n(FunctionSumBytes):      sumBytes,

	n(FunctionSigVerify):  sigVerify,
	n(FunctionKeccak256):  keccak256,
	n(FunctionBlake2b256): blake2b256,
	n(FunctionSha256):     sha256,

	n(FunctionAssetBalance):         assetBalance,
	n(FunctionWavesBalance):         wavesBalance,
	n(FunctionInvoke):               invoke,
	n(FunctionReentrantInvoke):      reentrantInvoke,
	n(FunctionGetInteger):           getInteger,
	n(FunctionGetBoolean):           getBoolean,
	n(FunctionGetBinary):            getBinary,
	n(FunctionGetString):            getString,
	n(FunctionAddressFromRecipient): addressFromRecipient,
	n(FunctionCalculateLeaseID):     calculateLeaseID,

	n(FunctionCreateList): createList,
	n(FunctionGetList):    getList,
	n(FunctionAppendList): appendList,
	n(FunctionConcatList): concatList,
	n(FunctionSizeList):   sizeList,
}

func checkArgs(args []rideType, count int) error {
	if len(args) != count {
		return RuntimeError.Errorf("%d is invalid number of arguments, expected %d", len(args), count)
	}
	for i, a := range args {
		if a == nil {
			return RuntimeError.Errorf("argument %d is empty", i+1)
		}
	}
	return nil
}

func intArg(args []rideType) (rideInt, error) {
	if err := checkArgs(args, 1); err != nil {
		return 0, err
	}
	l, ok := args[0].(rideInt)
	if !ok {
		return 0, RuntimeError.Errorf("argument 1 is not of type 'Int' but '%s'", args[0].instanceOf())
	}
	return l, nil
}

func twoIntArgs(args []rideType) (rideInt, rideInt, error) {
	if err := checkArgs(args, 2); err != nil {
		return 0, 0, err
	}
	a, ok := args[0].(rideInt)
	if !ok {
		return 0, 0, RuntimeError.Errorf("argument 1 is not of type 'Int' but '%s'", args[0].instanceOf())
	}
	b, ok := args[1].(rideInt)
	if !ok {
		return 0, 0, RuntimeError.Errorf("argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	return a, b, nil
}

func bytesArg(args []rideType) (rideByteVector, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, err
	}
	b, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	return b, nil
}

func bytesAndIntArgs(args []rideType) ([]byte, int, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, 0, err
	}
	b, ok := args[0].(rideByteVector)
	if !ok {
		return nil, 0, RuntimeError.Errorf("argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	i, ok := args[1].(rideInt)
	if !ok {
		return nil, 0, RuntimeError.Errorf("argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	return b, int(i), nil
}

func stringArg(args []rideType) (rideString, error) {
	if err := checkArgs(args, 1); err != nil {
		return "", err
	}
	s, ok := args[0].(rideString)
	if !ok {
		return "", RuntimeError.Errorf("argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	return s, nil
}

func twoStringArgs(args []rideType) (rideString, rideString, error) {
	if err := checkArgs(args, 2); err != nil {
		return "", "", err
	}
	s1, ok := args[0].(rideString)
	if !ok {
		return "", "", RuntimeError.Errorf("argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	s2, ok := args[1].(rideString)
	if !ok {
		return "", "", RuntimeError.Errorf("argument 2 is not of type 'String' but '%s'", args[1].instanceOf())
	}
	return s1, s2, nil
}

func stringAndIntArgs(args []rideType) (string, int, error) {
	if err := checkArgs(args, 2); err != nil {
		return "", 0, err
	}
	s, ok := args[0].(rideString)
	if !ok {
		return "", 0, RuntimeError.Errorf("argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	i, ok := args[1].(rideInt)
	if !ok {
		return "", 0, RuntimeError.Errorf("argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	return string(s), int(i), nil
}

func recipientArg(env *EvaluationEnvironment, arg rideType) (proto.Recipient, error) {
	switch a := arg.(type) {
	case rideAddress:
		return proto.NewRecipientFromAddress(proto.Address(a)), nil
	case rideAlias:
		return proto.NewRecipientFromAlias(proto.Alias(a)), nil
	case rideByteVector:
		addr, err := proto.NewAddressFromBytes(a)
		if err != nil {
			return proto.Recipient{}, RuntimeError.Wrap(err, "invalid address bytes")
		}
		return proto.NewRecipientFromAddress(addr), nil
	default:
		return proto.Recipient{}, RuntimeError.Errorf("unexpected recipient type '%s'", arg.instanceOf())
	}
}

func eq(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, err
	}
	return rideBoolean(args[0].eq(args[1])), nil
}

func isInstanceOf(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, err
	}
	t, ok := args[1].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("argument 2 is not of type 'String' but '%s'", args[1].instanceOf())
	}
	return rideBoolean(args[0].instanceOf() == string(t)), nil
}

func throw(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "throw")
	}
	return nil, UserError.New(string(s))
}

func sumLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "sumLong")
	}
	r, err := util.AddInt64(int64(a), int64(b))
	if err != nil {
		return nil, RuntimeError.Wrap(err, "sumLong")
	}
	return rideInt(r), nil
}

func subLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "subLong")
	}
	r, err := util.AddInt64(int64(a), -int64(b))
	if err != nil {
		return nil, RuntimeError.Wrap(err, "subLong")
	}
	return rideInt(r), nil
}

func gtLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "gtLong")
	}
	return rideBoolean(a > b), nil
}

func geLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "geLong")
	}
	return rideBoolean(a >= b), nil
}

func mulLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "mulLong")
	}
	r := int64(a) * int64(b)
	if a != 0 && r/int64(a) != int64(b) {
		return nil, RuntimeError.New("mulLong: integer overflow")
	}
	return rideInt(r), nil
}

func divLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "divLong")
	}
	if b == 0 {
		return nil, RuntimeError.New("divLong: division by zero")
	}
	return rideInt(floorDiv(int64(a), int64(b))), nil
}

func modLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	a, b, err := twoIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "modLong")
	}
	if b == 0 {
		return nil, RuntimeError.New("modLong: division by zero")
	}
	return rideInt(floorMod(int64(a), int64(b))), nil
}

func fractionLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "fraction")
	}
	a, ok := args[0].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("fraction: argument 1 is not of type 'Int' but '%s'", args[0].instanceOf())
	}
	b, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("fraction: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	c, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("fraction: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	r, err := fraction(int64(a), int64(b), int64(c))
	if err != nil {
		return nil, RuntimeError.Wrap(err, "fraction")
	}
	return rideInt(r), nil
}

func pow(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 6); err != nil {
		return nil, EvaluationErrorPush(err, "pow")
	}
	base, ok := args[0].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 1 is not of type 'Int' but '%s'", args[0].instanceOf())
	}
	bp, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	exponent, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	ep, ok := args[3].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 4 is not of type 'Int' but '%s'", args[3].instanceOf())
	}
	rp, ok := args[4].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 5 is not of type 'Int' but '%s'", args[4].instanceOf())
	}
	mode, ok := args[5].(rideObject)
	if !ok {
		return nil, RuntimeError.Errorf("pow: argument 6 is not a rounding mode but '%s'", args[5].instanceOf())
	}
	r, err := mathPow(int64(base), int(bp), int64(exponent), int(ep), int(rp), mode.instanceOf(), env.NewPowPrecision)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "pow")
	}
	return rideInt(r), nil
}

func log(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 6); err != nil {
		return nil, EvaluationErrorPush(err, "log")
	}
	value, ok := args[0].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 1 is not of type 'Int' but '%s'", args[0].instanceOf())
	}
	vp, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	base, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	bp, ok := args[3].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 4 is not of type 'Int' but '%s'", args[3].instanceOf())
	}
	rp, ok := args[4].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 5 is not of type 'Int' but '%s'", args[4].instanceOf())
	}
	mode, ok := args[5].(rideObject)
	if !ok {
		return nil, RuntimeError.Errorf("log: argument 6 is not a rounding mode but '%s'", args[5].instanceOf())
	}
	r, err := mathLog(int64(value), int(vp), int64(base), int(bp), int(rp), mode.instanceOf())
	if err != nil {
		return nil, RuntimeError.Wrap(err, "log")
	}
	return rideInt(r), nil
}

func minusLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	l, err := intArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "minusLong")
	}
	if int64(l) == -(1 << 63) {
		return nil, RuntimeError.New("minusLong: integer overflow")
	}
	return -l, nil
}

func not(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, EvaluationErrorPush(err, "not")
	}
	b, ok := args[0].(rideBoolean)
	if !ok {
		return nil, RuntimeError.Errorf("not: argument 1 is not of type 'Boolean' but '%s'", args[0].instanceOf())
	}
	return !b, nil
}

func toBase58(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "toBase58")
	}
	if len(b) > maxBase58BytesToEncode {
		return nil, LimitExceeded.Errorf("toBase58: %d bytes exceed the limit of %d", len(b), maxBase58BytesToEncode)
	}
	return rideString(base58.Encode(b)), nil
}

func fromBase58(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "fromBase58")
	}
	if len(s) > maxBase58StringToDecode {
		return nil, LimitExceeded.Errorf("fromBase58: string size %d exceeds the limit of %d", len(s), maxBase58StringToDecode)
	}
	if len(s) == 0 {
		return rideByteVector{}, nil
	}
	b, err := base58.Decode(string(s))
	if err != nil {
		return nil, RuntimeError.Wrap(err, "fromBase58")
	}
	return rideByteVector(b), nil
}

func toBase64(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "toBase64")
	}
	if len(b) > maxBase64BytesToEncode {
		return nil, LimitExceeded.Errorf("toBase64: %d bytes exceed the limit of %d", len(b), maxBase64BytesToEncode)
	}
	return rideString(base64.StdEncoding.EncodeToString(b)), nil
}

func fromBase64(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "fromBase64")
	}
	if len(s) > maxBase64StringToDecode {
		return nil, LimitExceeded.Errorf("fromBase64: string size %d exceeds the limit of %d", len(s), maxBase64StringToDecode)
	}
	str := strings.TrimPrefix(string(s), "base64:")
	b, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "fromBase64")
	}
	return rideByteVector(b), nil
}

func sumString(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s1, s2, err := twoStringArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "sumString")
	}
	return newString(string(s1) + string(s2))
}

// takeString saturates on out-of-range counts per historical behavior.
func takeString(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, num, err := stringAndIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "takeString")
	}
	if env.FixUnicode {
		runes := []rune(s)
		n := clampIndex(num, len(runes))
		return rideString(string(runes[:n])), nil
	}
	n := clampIndex(num, len(s))
	return rideString(s[:n]), nil
}

func dropString(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, num, err := stringAndIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "dropString")
	}
	if env.FixUnicode {
		runes := []rune(s)
		n := clampIndex(num, len(runes))
		return rideString(string(runes[n:])), nil
	}
	n := clampIndex(num, len(s))
	return rideString(s[n:]), nil
}

func sizeString(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "sizeString")
	}
	return rideInt(utf8.RuneCountInString(string(s))), nil
}

func indexOf(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s1, s2, err := twoStringArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "indexOf")
	}
	i := strings.Index(string(s1), string(s2))
	if i < 0 {
		return rideUnit{}, nil
	}
	return rideInt(utf8.RuneCountInString(string(s1)[:i])), nil
}

func indexOfWithOffset(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "indexOfWithOffset")
	}
	s, ok := args[0].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("indexOf: argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	sub, ok := args[1].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("indexOf: argument 2 is not of type 'String' but '%s'", args[1].instanceOf())
	}
	offset, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("indexOf: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	runes := []rune(string(s))
	if offset < 0 || int(offset) > len(runes) {
		return rideUnit{}, nil
	}
	i := strings.Index(string(runes[offset:]), string(sub))
	if i < 0 {
		return rideUnit{}, nil
	}
	return rideInt(int(offset) + utf8.RuneCountInString(string(runes[offset:])[:i])), nil
}

func splitStr(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s1, s2, err := twoStringArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "splitStr")
	}
	parts := strings.Split(string(s1), string(s2))
	items := make([]rideType, len(parts))
	for i, p := range parts {
		items[i] = rideString(p)
	}
	return newList(items)
}

func parseIntValue(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "parseIntValue")
	}
	i, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return nil, UserError.Errorf("parseIntValue: failed to parse '%s'", string(s))
	}
	return rideInt(i), nil
}

func longToBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	l, err := intArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "longToBytes")
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(l))
	return rideByteVector(out), nil
}

func bytesToLong(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "bytesToLong")
	}
	if len(b) < 8 {
		return nil, RuntimeError.Errorf("bytesToLong: %d bytes is not enough", len(b))
	}
	return rideInt(int64(binary.BigEndian.Uint64(b))), nil
}

func stringToBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "stringToBytes")
	}
	return newByteVector([]byte(s))
}

func utf8String(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "utf8String")
	}
	if !utf8.Valid(b) {
		return nil, RuntimeError.New("utf8String: invalid UTF-8 sequence")
	}
	return newString(string(b))
}

// clampIndex saturates n into [0, l] per historical take/drop behavior.
func clampIndex(n, l int) int {
	if n < 0 {
		return 0
	}
	if n > l {
		return l
	}
	return n
}

func takeBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, num, err := bytesAndIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "takeBytes")
	}
	n := clampIndex(num, len(b))
	out := make([]byte, n)
	copy(out, b[:n])
	return rideByteVector(out), nil
}

func dropBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, num, err := bytesAndIntArgs(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "dropBytes")
	}
	n := clampIndex(num, len(b))
	out := make([]byte, len(b)-n)
	copy(out, b[n:])
	return rideByteVector(out), nil
}

func sizeBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "sizeBytes")
	}
	return rideInt(len(b)), nil
}

func sumBytes(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "sumBytes")
	}
	b1, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("sumBytes: argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	b2, ok := args[1].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("sumBytes: argument 2 is not of type 'ByteVector' but '%s'", args[1].instanceOf())
	}
	out := make([]byte, 0, len(b1)+len(b2))
	out = append(out, b1...)
	out = append(out, b2...)
	return newByteVector(out)
}

func sigVerify(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "sigVerify")
	}
	message, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("sigVerify: argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	signature, ok := args[1].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("sigVerify: argument 2 is not of type 'ByteVector' but '%s'", args[1].instanceOf())
	}
	pkb, ok := args[2].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("sigVerify: argument 3 is not of type 'ByteVector' but '%s'", args[2].instanceOf())
	}
	if env.Lib < settings.StdLibV4 && len(message) > maxMessageLength {
		return nil, RuntimeError.Errorf("sigVerify: message size %d exceeds limit %d", len(message), maxMessageLength)
	}
	pk, err := crypto.NewPublicKeyFromBytes(pkb)
	if err != nil {
		return rideBoolean(false), nil
	}
	sig, err := crypto.NewSignatureFromBytes(signature)
	if err != nil {
		return rideBoolean(false), nil
	}
	return rideBoolean(crypto.Verify(pk, sig, message)), nil
}

func keccak256(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "keccak256")
	}
	d := crypto.Keccak256(b)
	return rideByteVector(d.Bytes()), nil
}

func blake2b256(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "blake2b256")
	}
	d, err := crypto.FastHash(b)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "blake2b256")
	}
	return rideByteVector(d.Bytes()), nil
}

func sha256(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "sha256")
	}
	d := crypto.Sha256(b)
	return rideByteVector(d.Bytes()), nil
}

func assetBalance(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "assetBalance")
	}
	rcp, err := recipientArg(env, args[0])
	if err != nil {
		return nil, EvaluationErrorPush(err, "assetBalance")
	}
	addr, err := resolveRecipient(env, rcp)
	if err != nil {
		return nil, EvaluationErrorPush(err, "assetBalance")
	}
	switch a := args[1].(type) {
	case rideUnit:
		balance, err := env.Reader.NewestWavesBalance(addr)
		if err != nil {
			return nil, RuntimeError.Wrap(err, "assetBalance")
		}
		return rideInt(balance), nil
	case rideByteVector:
		asset, err := crypto.NewDigestFromBytes(a)
		if err != nil {
			return nil, RuntimeError.Wrap(err, "assetBalance")
		}
		balance, err := env.Reader.NewestAssetBalance(addr, asset)
		if err != nil {
			return nil, RuntimeError.Wrap(err, "assetBalance")
		}
		return rideInt(balance), nil
	default:
		return nil, RuntimeError.Errorf("assetBalance: unexpected asset type '%s'", args[1].instanceOf())
	}
}

func wavesBalance(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, EvaluationErrorPush(err, "wavesBalance")
	}
	rcp, err := recipientArg(env, args[0])
	if err != nil {
		return nil, EvaluationErrorPush(err, "wavesBalance")
	}
	addr, err := resolveRecipient(env, rcp)
	if err != nil {
		return nil, EvaluationErrorPush(err, "wavesBalance")
	}
	balance, err := env.Reader.NewestWavesBalance(addr)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "wavesBalance")
	}
	return rideInt(balance), nil
}

func resolveRecipient(env *EvaluationEnvironment, rcp proto.Recipient) (proto.Address, error) {
	if rcp.Address != nil {
		return *rcp.Address, nil
	}
	if rcp.Alias != nil {
		return env.Reader.NewestAddrByAlias(*rcp.Alias)
	}
	return proto.Address{}, RuntimeError.New("empty recipient")
}

func dataEntryValue(env *EvaluationEnvironment, args []rideType, name string) (proto.DataEntry, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "%s", name)
	}
	rcp, err := recipientArg(env, args[0])
	if err != nil {
		return nil, EvaluationErrorPush(err, "%s", name)
	}
	addr, err := resolveRecipient(env, rcp)
	if err != nil {
		return nil, EvaluationErrorPush(err, "%s", name)
	}
	key, ok := args[1].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("%s: argument 2 is not of type 'String' but '%s'", name, args[1].instanceOf())
	}
	return env.Reader.NewestDataEntry(addr, string(key))
}

func getInteger(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	entry, err := dataEntryValue(env, args, "getInteger")
	if err != nil {
		return nil, err
	}
	if e, ok := entry.(proto.IntegerDataEntry); ok {
		return rideInt(e.Value), nil
	}
	return rideUnit{}, nil
}

func getBoolean(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	entry, err := dataEntryValue(env, args, "getBoolean")
	if err != nil {
		return nil, err
	}
	if e, ok := entry.(proto.BooleanDataEntry); ok {
		return rideBoolean(e.Value), nil
	}
	return rideUnit{}, nil
}

func getBinary(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	entry, err := dataEntryValue(env, args, "getBinary")
	if err != nil {
		return nil, err
	}
	if e, ok := entry.(proto.BinaryDataEntry); ok {
		return rideByteVector(e.Value), nil
	}
	return rideUnit{}, nil
}

func getString(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	entry, err := dataEntryValue(env, args, "getString")
	if err != nil {
		return nil, err
	}
	if e, ok := entry.(proto.StringDataEntry); ok {
		return rideString(e.Value), nil
	}
	return rideUnit{}, nil
}

func addressFromRecipient(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, EvaluationErrorPush(err, "addressFromRecipient")
	}
	rcp, err := recipientArg(env, args[0])
	if err != nil {
		return nil, EvaluationErrorPush(err, "addressFromRecipient")
	}
	addr, err := resolveRecipient(env, rcp)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "addressFromRecipient")
	}
	return rideAddress(addr), nil
}

// calculateLeaseID computes the deterministic id of a Lease action object
// in the scope of the current invocation.
func calculateLeaseID(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, EvaluationErrorPush(err, "calculateLeaseId")
	}
	lease, ok := args[0].(rideObject)
	if !ok || lease.instanceOf() != "Lease" {
		return nil, RuntimeError.Errorf("calculateLeaseId: argument is not of type 'Lease' but '%s'", args[0].instanceOf())
	}
	rcpValue, err := lease.get("recipient")
	if err != nil {
		return nil, EvaluationErrorPush(err, "calculateLeaseId")
	}
	rcp, err := recipientArg(env, rcpValue)
	if err != nil {
		return nil, EvaluationErrorPush(err, "calculateLeaseId")
	}
	amountValue, err := lease.get("amount")
	if err != nil {
		return nil, EvaluationErrorPush(err, "calculateLeaseId")
	}
	amount, ok := amountValue.(rideInt)
	if !ok {
		return nil, RuntimeError.New("calculateLeaseId: invalid amount")
	}
	nonceValue, err := lease.get("nonce")
	if err != nil {
		return nil, EvaluationErrorPush(err, "calculateLeaseId")
	}
	nonce, ok := nonceValue.(rideInt)
	if !ok {
		return nil, RuntimeError.New("calculateLeaseId: invalid nonce")
	}
	id := proto.GenerateLeaseScriptActionID(rcp, int64(amount), int64(nonce), env.TxID)
	return rideByteVector(id.Bytes()), nil
}

func createList(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "createList")
	}
	tail, ok := args[1].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("createList: argument 2 is not of type 'List' but '%s'", args[1].instanceOf())
	}
	items := make([]rideType, 0, len(tail)+1)
	items = append(items, args[0])
	items = append(items, tail...)
	return newList(items)
}

func getList(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "getList")
	}
	l, ok := args[0].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("getList: argument 1 is not of type 'List' but '%s'", args[0].instanceOf())
	}
	i, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("getList: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	if i < 0 || int(i) >= len(l) {
		return nil, RuntimeError.Errorf("getList: index %d out of range [0, %d)", i, len(l))
	}
	return l[i], nil
}

func appendList(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "appendList")
	}
	l, ok := args[0].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("appendList: argument 1 is not of type 'List' but '%s'", args[0].instanceOf())
	}
	items := make([]rideType, 0, len(l)+1)
	items = append(items, l...)
	items = append(items, args[1])
	return newList(items)
}

func concatList(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "concatList")
	}
	l1, ok := args[0].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("concatList: argument 1 is not of type 'List' but '%s'", args[0].instanceOf())
	}
	l2, ok := args[1].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("concatList: argument 2 is not of type 'List' but '%s'", args[1].instanceOf())
	}
	items := make([]rideType, 0, len(l1)+len(l2))
	items = append(items, l1...)
	items = append(items, l2...)
	return newList(items)
}

func sizeList(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, EvaluationErrorPush(err, "sizeList")
	}
	l, ok := args[0].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("sizeList: argument 1 is not of type 'List' but '%s'", args[0].instanceOf())
	}
	return rideInt(len(l)), nil
}

func invoke(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	return performInvoke(env, false, args...)
}

func reentrantInvoke(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	return performInvoke(env, true, args...)
}

func performInvoke(env *EvaluationEnvironment, reentrant bool, args ...rideType) (rideType, error) {
	if env.Invoke == nil {
		return nil, InternalInvocationError.New("invoke is not available in this context")
	}
	if err := checkArgs(args, 4); err != nil {
		return nil, EvaluationErrorPush(err, "invoke")
	}
	rcp, err := recipientArg(env, args[0])
	if err != nil {
		return nil, EvaluationErrorPush(err, "invoke")
	}
	fn, ok := args[1].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("invoke: argument 2 is not of type 'String' but '%s'", args[1].instanceOf())
	}
	argList, ok := args[2].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("invoke: argument 3 is not of type 'List' but '%s'", args[2].instanceOf())
	}
	callArgs, err := valuesToArguments(argList)
	if err != nil {
		return nil, EvaluationErrorPush(err, "invoke")
	}
	paymentList, ok := args[3].(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("invoke: argument 4 is not of type 'List' but '%s'", args[3].instanceOf())
	}
	payments, err := valuesToPayments(paymentList)
	if err != nil {
		return nil, EvaluationErrorPush(err, "invoke")
	}
	res, err := env.Invoke(rcp, string(fn), callArgs, payments, reentrant)
	if err != nil {
		return nil, err
	}
	if r, ok := res.(DAppResult); ok {
		if r.ret != nil {
			return r.ret, nil
		}
		return rideUnit{}, nil
	}
	return nil, InternalInvocationError.New("unexpected result of invocation")
}
