package ride

import (
	"strconv"

	"github.com/wavesplatform/txdiff/pkg/settings"
)

// Stable numeric ids of built-in functions. The assignment is part of the
// compiled script format and must never change.
const (
	FunctionEq           uint16 = 0
	FunctionIsInstanceOf uint16 = 1
	FunctionThrow        uint16 = 2

	FunctionSumLong      uint16 = 10
	FunctionSubLong      uint16 = 11
	FunctionGtLong       uint16 = 12
	FunctionGeLong       uint16 = 13
	FunctionMulLong      uint16 = 14
	FunctionDivLong      uint16 = 15
	FunctionModLong      uint16 = 16
	FunctionFractionLong uint16 = 17
	FunctionPow          uint16 = 18
	FunctionLog          uint16 = 19
	FunctionMinusLong    uint16 = 20
	FunctionNot          uint16 = 21

	FunctionToBase58   uint16 = 100
	FunctionFromBase58 uint16 = 101
	FunctionToBase64   uint16 = 102
	FunctionFromBase64 uint16 = 103

	FunctionSumString         uint16 = 202
	FunctionTakeString        uint16 = 203
	FunctionDropString        uint16 = 204
	FunctionSizeString        uint16 = 205
	FunctionIndexOf           uint16 = 206
	FunctionIndexOfWithOffset uint16 = 207
	FunctionSplitStr          uint16 = 208
	FunctionParseIntValue     uint16 = 209

	FunctionLongToBytes   uint16 = 400
	FunctionBytesToLong   uint16 = 401
	FunctionStringToBytes uint16 = 402
	FunctionUtf8String    uint16 = 403
	FunctionTakeBytes     uint16 = 404
	FunctionDropBytes     uint16 = 405
	FunctionSizeBytes     uint16 = 406
	FunctionSumBytes      uint16 = 407

	FunctionSigVerify  uint16 = 500
	FunctionKeccak256  uint16 = 501
	FunctionBlake2b256 uint16 = 502
	FunctionSha256     uint16 = 503

	FunctionAssetBalance         uint16 = 1003
	FunctionWavesBalance         uint16 = 1007
	FunctionInvoke               uint16 = 1020
	FunctionReentrantInvoke      uint16 = 1021
	FunctionGetInteger           uint16 = 1040
	FunctionGetBoolean           uint16 = 1041
	FunctionGetBinary            uint16 = 1042
	FunctionGetString            uint16 = 1043
	FunctionAddressFromRecipient uint16 = 1060
	FunctionCalculateLeaseID     uint16 = 1080

	FunctionCreateList uint16 = 1100
	FunctionGetList    uint16 = 1101
	FunctionAppendList uint16 = 1102
	FunctionConcatList uint16 = 1103
	FunctionSizeList   uint16 = 1104
)

// nativeFunctionName renders the id the way compiled trees reference
// built-ins.
func nativeFunctionName(id uint16) string {
	return strconv.Itoa(int(id))
}

func n(id uint16) string {
	return nativeFunctionName(id)
}

// CatalogueV3 is the built-in cost table of library V3.
var CatalogueV3 = map[string]int{
	n(FunctionEq):           1,
	n(FunctionIsInstanceOf): 1,
	n(FunctionThrow):        1,

	n(FunctionSumLong):      1,
	n(FunctionSubLong):      1,
	n(FunctionGtLong):       1,
	n(FunctionGeLong):       1,
	n(FunctionMulLong):      1,
	n(FunctionDivLong):      1,
	n(FunctionModLong):      1,
	n(FunctionFractionLong): 1,
	n(FunctionPow):          100,
	n(FunctionLog):          100,
	n(FunctionMinusLong):    1,
	n(FunctionNot):          1,

	n(FunctionToBase58):   10,
	n(FunctionFromBase58): 10,
	n(FunctionToBase64):   10,
	n(FunctionFromBase64): 10,

	n(FunctionSumString):         10,
	n(FunctionTakeString):        1,
	n(FunctionDropString):        1,
	n(FunctionSizeString):        1,
	n(FunctionIndexOf):           20,
	n(FunctionIndexOfWithOffset): 20,
	n(FunctionSplitStr):          100,
	n(FunctionParseIntValue):     20,

	n(FunctionLongToBytes):   1,
	n(FunctionBytesToLong):   10,
	n(FunctionStringToBytes): 1,
	n(FunctionUtf8String):    20,
	n(FunctionTakeBytes):     2,
	n(FunctionDropBytes):     2,
	n(FunctionSizeBytes):     2,
	n(FunctionSumBytes):      2,

	n(FunctionSigVerify):  100,
	n(FunctionKeccak256):  10,
	n(FunctionBlake2b256): 10,
	n(FunctionSha256):     10,

	n(FunctionAssetBalance):         100,
	n(FunctionWavesBalance):         100,
	n(FunctionGetInteger):           100,
	n(FunctionGetBoolean):           100,
	n(FunctionGetBinary):            100,
	n(FunctionGetString):            100,
	n(FunctionAddressFromRecipient): 100,

	n(FunctionCreateList): 2,
	n(FunctionGetList):    2,
	n(FunctionAppendList): 3,
	n(FunctionConcatList): 10,
	n(FunctionSizeList):   2,
}

// CatalogueV4 re-prices some built-ins.
var CatalogueV4 = merge(CatalogueV3, map[string]int{
	n(FunctionSigVerify):         200,
	n(FunctionIndexOf):           3,
	n(FunctionIndexOfWithOffset): 3,
	n(FunctionSplitStr):          75,
	n(FunctionParseIntValue):     2,
	n(FunctionUtf8String):        7,
	n(FunctionKeccak256):         200,
	n(FunctionBlake2b256):        200,
	n(FunctionSha256):            200,
	n(FunctionCalculateLeaseID):  1,
})

// CatalogueV5 adds synchronous invocations.
var CatalogueV5 = merge(CatalogueV4, map[string]int{
	n(FunctionInvoke):          75,
	n(FunctionReentrantInvoke): 75,
	n(FunctionSigVerify):       180,
	n(FunctionPow):             28,
	n(FunctionLog):             28,
})

func merge(base, overrides map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// selectCatalogue returns the built-in cost table for the library version.
func selectCatalogue(v settings.StdLibVersion) (map[string]int, error) {
	switch v {
	case settings.StdLibV3:
		return CatalogueV3, nil
	case settings.StdLibV4:
		return CatalogueV4, nil
	case settings.StdLibV5:
		return CatalogueV5, nil
	default:
		return nil, RuntimeError.Errorf("unsupported library version %d", v)
	}
}

// constructorCost is the cost of a case-object constructor call.
const constructorCost = 1

// selectConstructors returns the case-object constructors available in the
// library version. Constructors are referenced by plain name.
func selectConstructors(v settings.StdLibVersion) map[string]rideConstructor {
	cs := map[string]rideConstructor{
		"Address":        addressConstructor,
		"Alias":          aliasConstructor,
		"DataEntry":      dataEntryConstructor,
		"ScriptTransfer": scriptTransferConstructor,
	}
	if v >= settings.StdLibV4 {
		cs["IntegerEntry"] = typedEntryConstructor("IntegerEntry")
		cs["BooleanEntry"] = typedEntryConstructor("BooleanEntry")
		cs["BinaryEntry"] = typedEntryConstructor("BinaryEntry")
		cs["StringEntry"] = typedEntryConstructor("StringEntry")
		cs["DeleteEntry"] = deleteEntryConstructor
		cs["Issue"] = issueConstructor
		cs["Reissue"] = reissueConstructor
		cs["Burn"] = burnConstructor
		cs["SponsorFee"] = sponsorFeeConstructor
	}
	if v >= settings.StdLibV5 {
		cs["Lease"] = leaseConstructor
		cs["LeaseCancel"] = leaseCancelConstructor
	}
	return cs
}

// selectFunctions binds every catalogued built-in to its implementation.
func selectFunctions(v settings.StdLibVersion) (map[string]rideFunction, error) {
	catalogue, err := selectCatalogue(v)
	if err != nil {
		return nil, err
	}
	fs := make(map[string]rideFunction, len(catalogue))
	for id := range catalogue {
		f, ok := allFunctions[id]
		if !ok {
			return nil, RuntimeError.Errorf("no implementation for function '%s'", id)
		}
		fs[id] = f
	}
	return fs, nil
}
