package ride

import (
	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/proto"
)

// convertArgument converts an invoke-script call argument to a runtime
// value.
func convertArgument(arg proto.Argument) (rideType, error) {
	switch a := arg.(type) {
	case proto.IntegerArgument:
		return rideInt(a.Value), nil
	case proto.BooleanArgument:
		return rideBoolean(a.Value), nil
	case proto.BinaryArgument:
		return newByteVector(a.Value)
	case proto.StringArgument:
		return newString(a.Value)
	case proto.ListArgument:
		items := make([]rideType, len(a.Items))
		for i, item := range a.Items {
			v, err := convertArgument(item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return newList(items)
	default:
		return nil, RuntimeError.Errorf("unsupported argument type '%T'", arg)
	}
}

func convertArguments(args proto.Arguments) ([]rideType, error) {
	out := make([]rideType, len(args))
	for i, arg := range args {
		v, err := convertArgument(arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// valuesToArguments is the inverse conversion used by the sync-invoke
// natives.
func valuesToArguments(values rideList) (proto.Arguments, error) {
	out := make(proto.Arguments, len(values))
	for i, v := range values {
		arg, err := valueToArgument(v)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

func valueToArgument(v rideType) (proto.Argument, error) {
	switch a := v.(type) {
	case rideInt:
		return proto.IntegerArgument{Value: int64(a)}, nil
	case rideBoolean:
		return proto.BooleanArgument{Value: bool(a)}, nil
	case rideByteVector:
		return proto.BinaryArgument{Value: a}, nil
	case rideString:
		return proto.StringArgument{Value: string(a)}, nil
	case rideList:
		items, err := valuesToArguments(a)
		if err != nil {
			return nil, err
		}
		return proto.ListArgument{Items: items}, nil
	default:
		return nil, RuntimeError.Errorf("unsupported argument of type '%s'", v.instanceOf())
	}
}

func valuesToPayments(values rideList) ([]proto.ScriptPayment, error) {
	out := make([]proto.ScriptPayment, len(values))
	for i, v := range values {
		obj, ok := v.(rideObject)
		if !ok || obj.instanceOf() != "AttachedPayment" {
			return nil, RuntimeError.Errorf("unexpected payment of type '%s'", v.instanceOf())
		}
		amountValue, err := obj.get("amount")
		if err != nil {
			return nil, err
		}
		amount, ok := amountValue.(rideInt)
		if !ok {
			return nil, RuntimeError.New("invalid payment amount")
		}
		if amount < 0 {
			return nil, RuntimeError.Errorf("negative payment amount %d", amount)
		}
		assetValue, err := obj.get("assetId")
		if err != nil {
			return nil, err
		}
		asset, err := optionalAssetValue(assetValue)
		if err != nil {
			return nil, err
		}
		out[i] = proto.ScriptPayment{Amount: uint64(amount), Asset: asset}
	}
	return out, nil
}

func optionalAssetValue(v rideType) (proto.OptionalAsset, error) {
	switch a := v.(type) {
	case rideUnit:
		return proto.NewOptionalWaves(), nil
	case rideByteVector:
		d, err := crypto.NewDigestFromBytes(a)
		if err != nil {
			return proto.OptionalAsset{}, RuntimeError.Wrap(err, "invalid asset id")
		}
		return proto.NewOptionalAssetFromDigest(d), nil
	default:
		return proto.OptionalAsset{}, RuntimeError.Errorf("unexpected asset of type '%s'", v.instanceOf())
	}
}

func optionalAssetObject(a proto.OptionalAsset) rideType {
	if a.Present {
		return rideByteVector(a.ID.Bytes())
	}
	return rideUnit{}
}

func recipientObject(r proto.Recipient) rideType {
	if r.Address != nil {
		return rideAddress(*r.Address)
	}
	if r.Alias != nil {
		return rideAlias(*r.Alias)
	}
	return rideUnit{}
}

// transferTransactionObject renders the 'tx' binding of a verifier run over
// a transfer transaction. Field order is fixed: it is observable through
// the evaluation log.
func transferTransactionObject(tx *proto.Transfer, sender proto.Address) (rideType, error) {
	id, err := tx.GetID()
	if err != nil {
		return nil, RuntimeError.Wrap(err, "transfer transaction without id")
	}
	return newRideObject("TransferTransaction",
		objectField{name: "recipient", value: recipientObject(tx.Recipient)},
		objectField{name: "amount", value: rideInt(tx.Amount)},
		objectField{name: "assetId", value: optionalAssetObject(tx.AmountAsset)},
		objectField{name: "feeAssetId", value: optionalAssetObject(tx.FeeAsset)},
		objectField{name: "attachment", value: rideByteVector(tx.Attachment)},
		objectField{name: "fee", value: rideInt(tx.Fee)},
		objectField{name: "timestamp", value: rideInt(tx.Timestamp)},
		objectField{name: "id", value: rideByteVector(id.Bytes())},
		objectField{name: "senderPublicKey", value: rideByteVector(tx.SenderPK.Bytes())},
		objectField{name: "sender", value: rideAddress(sender)},
	), nil
}

// pseudoTxObject renders the synthetic transaction handed to an asset
// script by the action interpreter.
func pseudoTxObject(tx proto.PseudoTx) (rideType, error) {
	switch t := tx.(type) {
	case proto.TransferPseudoTx:
		return newRideObject("TransferTransaction",
			objectField{name: "recipient", value: recipientObject(t.Recipient)},
			objectField{name: "amount", value: rideInt(t.Amount)},
			objectField{name: "assetId", value: optionalAssetObject(t.Asset)},
			objectField{name: "feeAssetId", value: rideUnit{}},
			objectField{name: "attachment", value: rideByteVector(nil)},
			objectField{name: "fee", value: rideInt(0)},
			objectField{name: "timestamp", value: rideInt(t.Timestamp)},
			objectField{name: "id", value: rideByteVector(t.ID.Bytes())},
			objectField{name: "senderPublicKey", value: rideByteVector(t.SenderPK.Bytes())},
			objectField{name: "sender", value: rideAddress(t.Sender)},
		), nil
	case proto.ReissuePseudoTx:
		return newRideObject("ReissueTransaction",
			objectField{name: "assetId", value: rideByteVector(t.AssetID.Bytes())},
			objectField{name: "quantity", value: rideInt(t.Quantity)},
			objectField{name: "reissuable", value: rideBoolean(t.Reissuable)},
			objectField{name: "fee", value: rideInt(0)},
			objectField{name: "timestamp", value: rideInt(t.Timestamp)},
			objectField{name: "id", value: rideByteVector(t.ID.Bytes())},
			objectField{name: "senderPublicKey", value: rideByteVector(t.SenderPK.Bytes())},
			objectField{name: "sender", value: rideAddress(t.Sender)},
		), nil
	case proto.BurnPseudoTx:
		return newRideObject("BurnTransaction",
			objectField{name: "assetId", value: rideByteVector(t.AssetID.Bytes())},
			objectField{name: "quantity", value: rideInt(t.Quantity)},
			objectField{name: "fee", value: rideInt(0)},
			objectField{name: "timestamp", value: rideInt(t.Timestamp)},
			objectField{name: "id", value: rideByteVector(t.ID.Bytes())},
			objectField{name: "senderPublicKey", value: rideByteVector(t.SenderPK.Bytes())},
			objectField{name: "sender", value: rideAddress(t.Sender)},
		), nil
	case proto.SponsorFeePseudoTx:
		var minFee rideType = rideUnit{}
		if t.MinFee > 0 {
			minFee = rideInt(t.MinFee)
		}
		return newRideObject("SponsorFeeTransaction",
			objectField{name: "assetId", value: rideByteVector(t.AssetID.Bytes())},
			objectField{name: "minSponsoredAssetFee", value: minFee},
			objectField{name: "fee", value: rideInt(0)},
			objectField{name: "timestamp", value: rideInt(t.Timestamp)},
			objectField{name: "id", value: rideByteVector(t.ID.Bytes())},
			objectField{name: "senderPublicKey", value: rideByteVector(t.SenderPK.Bytes())},
			objectField{name: "sender", value: rideAddress(t.Sender)},
		), nil
	default:
		return nil, RuntimeError.Errorf("unsupported pseudo transaction type '%T'", tx)
	}
}

func invocationObject(txID crypto.Digest, caller proto.Address, callerPK crypto.PublicKey, payments []proto.ScriptPayment, fee uint64, feeAsset proto.OptionalAsset) rideType {
	paymentObjects := make([]rideType, len(payments))
	for i, p := range payments {
		paymentObjects[i] = newRideObject("AttachedPayment",
			objectField{name: "assetId", value: optionalAssetObject(p.Asset)},
			objectField{name: "amount", value: rideInt(p.Amount)},
		)
	}
	return newRideObject("Invocation",
		objectField{name: "payments", value: rideList(paymentObjects)},
		objectField{name: "caller", value: rideAddress(caller)},
		objectField{name: "callerPublicKey", value: rideByteVector(callerPK.Bytes())},
		objectField{name: "transactionId", value: rideByteVector(txID.Bytes())},
		objectField{name: "fee", value: rideInt(fee)},
		objectField{name: "feeAssetId", value: optionalAssetObject(feeAsset)},
	)
}
