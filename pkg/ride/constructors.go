package ride

import (
	"github.com/wavesplatform/txdiff/pkg/proto"
)

func addressConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "Address")
	}
	addr, err := proto.NewAddressFromBytes(b)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "Address")
	}
	return rideAddress(addr), nil
}

func aliasConstructor(env *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "Alias")
	}
	alias, err := proto.NewAlias(env.Scheme, string(s))
	if err != nil {
		return nil, RuntimeError.Wrap(err, "Alias")
	}
	return rideAlias(*alias), nil
}

// dataEntryConstructor is the untyped V3 entry; the value type is whatever
// the second argument happens to be.
func dataEntryConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "DataEntry")
	}
	key, ok := args[0].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("DataEntry: argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	switch args[1].(type) {
	case rideInt, rideBoolean, rideString, rideByteVector:
	default:
		return nil, RuntimeError.Errorf("DataEntry: unsupported value type '%s'", args[1].instanceOf())
	}
	return newRideObject("DataEntry",
		objectField{name: "key", value: key},
		objectField{name: "value", value: args[1]},
	), nil
}

// typedEntryConstructor builds the V4 typed entries; the value type is
// checked against the constructor name.
func typedEntryConstructor(name string) rideConstructor {
	return func(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
		if err := checkArgs(args, 2); err != nil {
			return nil, EvaluationErrorPush(err, "%s", name)
		}
		key, ok := args[0].(rideString)
		if !ok {
			return nil, RuntimeError.Errorf("%s: argument 1 is not of type 'String' but '%s'", name, args[0].instanceOf())
		}
		valid := false
		switch name {
		case "IntegerEntry":
			_, valid = args[1].(rideInt)
		case "BooleanEntry":
			_, valid = args[1].(rideBoolean)
		case "BinaryEntry":
			_, valid = args[1].(rideByteVector)
		case "StringEntry":
			_, valid = args[1].(rideString)
		}
		if !valid {
			return nil, RuntimeError.Errorf("%s: unexpected value type '%s'", name, args[1].instanceOf())
		}
		return newRideObject(name,
			objectField{name: "key", value: key},
			objectField{name: "value", value: args[1]},
		), nil
	}
}

func deleteEntryConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	s, err := stringArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "DeleteEntry")
	}
	return newRideObject("DeleteEntry",
		objectField{name: "key", value: s},
	), nil
}

func scriptTransferConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "ScriptTransfer")
	}
	switch args[0].(type) {
	case rideAddress, rideAlias, rideByteVector:
	default:
		return nil, RuntimeError.Errorf("ScriptTransfer: unexpected recipient type '%s'", args[0].instanceOf())
	}
	amount, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("ScriptTransfer: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	switch args[2].(type) {
	case rideByteVector, rideUnit:
	default:
		return nil, RuntimeError.Errorf("ScriptTransfer: unexpected asset type '%s'", args[2].instanceOf())
	}
	return newRideObject("ScriptTransfer",
		objectField{name: "recipient", value: args[0]},
		objectField{name: "amount", value: amount},
		objectField{name: "asset", value: args[2]},
	), nil
}

func issueConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 7); err != nil {
		return nil, EvaluationErrorPush(err, "Issue")
	}
	name, ok := args[0].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 1 is not of type 'String' but '%s'", args[0].instanceOf())
	}
	description, ok := args[1].(rideString)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 2 is not of type 'String' but '%s'", args[1].instanceOf())
	}
	quantity, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	decimals, ok := args[3].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 4 is not of type 'Int' but '%s'", args[3].instanceOf())
	}
	reissuable, ok := args[4].(rideBoolean)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 5 is not of type 'Boolean' but '%s'", args[4].instanceOf())
	}
	if _, ok := args[5].(rideUnit); !ok {
		return nil, RuntimeError.New("Issue: script field must be Unit")
	}
	nonce, ok := args[6].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Issue: argument 7 is not of type 'Int' but '%s'", args[6].instanceOf())
	}
	return newRideObject("Issue",
		objectField{name: "name", value: name},
		objectField{name: "description", value: description},
		objectField{name: "quantity", value: quantity},
		objectField{name: "decimals", value: decimals},
		objectField{name: "isReissuable", value: reissuable},
		objectField{name: "compiledScript", value: rideUnit{}},
		objectField{name: "nonce", value: nonce},
	), nil
}

func reissueConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "Reissue")
	}
	assetID, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("Reissue: argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	quantity, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Reissue: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	reissuable, ok := args[2].(rideBoolean)
	if !ok {
		return nil, RuntimeError.Errorf("Reissue: argument 3 is not of type 'Boolean' but '%s'", args[2].instanceOf())
	}
	return newRideObject("Reissue",
		objectField{name: "assetId", value: assetID},
		objectField{name: "quantity", value: quantity},
		objectField{name: "isReissuable", value: reissuable},
	), nil
}

func burnConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "Burn")
	}
	assetID, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("Burn: argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	quantity, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Burn: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	return newRideObject("Burn",
		objectField{name: "assetId", value: assetID},
		objectField{name: "quantity", value: quantity},
	), nil
}

func sponsorFeeConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, EvaluationErrorPush(err, "SponsorFee")
	}
	assetID, ok := args[0].(rideByteVector)
	if !ok {
		return nil, RuntimeError.Errorf("SponsorFee: argument 1 is not of type 'ByteVector' but '%s'", args[0].instanceOf())
	}
	switch args[1].(type) {
	case rideInt, rideUnit:
	default:
		return nil, RuntimeError.Errorf("SponsorFee: unexpected fee type '%s'", args[1].instanceOf())
	}
	return newRideObject("SponsorFee",
		objectField{name: "assetId", value: assetID},
		objectField{name: "minSponsoredAssetFee", value: args[1]},
	), nil
}

func leaseConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	if err := checkArgs(args, 3); err != nil {
		return nil, EvaluationErrorPush(err, "Lease")
	}
	switch args[0].(type) {
	case rideAddress, rideAlias, rideByteVector:
	default:
		return nil, RuntimeError.Errorf("Lease: unexpected recipient type '%s'", args[0].instanceOf())
	}
	amount, ok := args[1].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Lease: argument 2 is not of type 'Int' but '%s'", args[1].instanceOf())
	}
	nonce, ok := args[2].(rideInt)
	if !ok {
		return nil, RuntimeError.Errorf("Lease: argument 3 is not of type 'Int' but '%s'", args[2].instanceOf())
	}
	return newRideObject("Lease",
		objectField{name: "recipient", value: args[0]},
		objectField{name: "amount", value: amount},
		objectField{name: "nonce", value: nonce},
	), nil
}

func leaseCancelConstructor(_ *EvaluationEnvironment, args ...rideType) (rideType, error) {
	b, err := bytesArg(args)
	if err != nil {
		return nil, EvaluationErrorPush(err, "LeaseCancel")
	}
	return newRideObject("LeaseCancel",
		objectField{name: "leaseId", value: b},
	), nil
}
