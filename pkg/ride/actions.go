package ride

import (
	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/proto"
)

// objectToActions converts the evaluation result of a callable to the
// ordered action list. Supported shapes: a plain action list (V4+), a
// tuple of a list and a return value (V5), and the V3 ScriptResult /
// WriteSet / TransferSet case objects.
func objectToActions(env *EvaluationEnvironment, v rideType) (proto.ScriptActions, rideType, error) {
	switch res := v.(type) {
	case rideList:
		actions, err := listToActions(env, res)
		return actions, nil, err
	case rideTuple:
		if len(res) != 2 {
			return nil, nil, RuntimeError.Errorf("unexpected tuple size %d of evaluation result", len(res))
		}
		list, ok := res[0].(rideList)
		if !ok {
			return nil, nil, RuntimeError.Errorf("unexpected result type '%s' in tuple", res[0].instanceOf())
		}
		actions, err := listToActions(env, list)
		if err != nil {
			return nil, nil, err
		}
		return actions, res[1], nil
	case rideObject:
		switch res.instanceOf() {
		case "WriteSet", "TransferSet":
			actions, err := convertLegacySet(env, res)
			return actions, nil, err
		case "ScriptResult":
			ws, err := res.get("writeSet")
			if err != nil {
				return nil, nil, err
			}
			wsObj, ok := ws.(rideObject)
			if !ok {
				return nil, nil, RuntimeError.New("invalid writeSet")
			}
			writes, err := convertLegacySet(env, wsObj)
			if err != nil {
				return nil, nil, err
			}
			ts, err := res.get("transferSet")
			if err != nil {
				return nil, nil, err
			}
			tsObj, ok := ts.(rideObject)
			if !ok {
				return nil, nil, RuntimeError.New("invalid transferSet")
			}
			transfers, err := convertLegacySet(env, tsObj)
			if err != nil {
				return nil, nil, err
			}
			return append(writes, transfers...), nil, nil
		default:
			return nil, nil, RuntimeError.Errorf("unexpected result type '%s'", res.instanceOf())
		}
	default:
		return nil, nil, RuntimeError.Errorf("unexpected result type '%s'", v.instanceOf())
	}
}

func convertLegacySet(env *EvaluationEnvironment, set rideObject) (proto.ScriptActions, error) {
	var field string
	switch set.instanceOf() {
	case "WriteSet":
		field = "data"
	case "TransferSet":
		field = "transfers"
	default:
		return nil, RuntimeError.Errorf("unexpected set type '%s'", set.instanceOf())
	}
	items, err := set.get(field)
	if err != nil {
		return nil, err
	}
	list, ok := items.(rideList)
	if !ok {
		return nil, RuntimeError.Errorf("invalid '%s' field", field)
	}
	return listToActions(env, list)
}

func listToActions(env *EvaluationEnvironment, list rideList) (proto.ScriptActions, error) {
	actions := make(proto.ScriptActions, 0, len(list))
	for _, item := range list {
		action, err := convertToAction(env, item)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// convertToAction converts a single action object. No amount validation
// happens here: negative quantities reach the action interpreter so the
// reject-versus-fail decision can be made by activation height.
func convertToAction(env *EvaluationEnvironment, v rideType) (proto.ScriptAction, error) {
	obj, ok := v.(rideObject)
	if !ok {
		return nil, RuntimeError.Errorf("unexpected action type '%s'", v.instanceOf())
	}
	switch obj.instanceOf() {
	case "DataEntry", "IntegerEntry", "BooleanEntry", "BinaryEntry", "StringEntry":
		entry, err := objectToDataEntry(obj)
		if err != nil {
			return nil, err
		}
		return proto.DataEntryScriptAction{Entry: entry}, nil
	case "DeleteEntry":
		key, err := stringProperty(obj, "key")
		if err != nil {
			return nil, err
		}
		return proto.DataEntryScriptAction{Entry: proto.DeleteDataEntry{Key: key}}, nil
	case "ScriptTransfer":
		rcpValue, err := obj.get("recipient")
		if err != nil {
			return nil, err
		}
		rcp, err := recipientArg(env, rcpValue)
		if err != nil {
			return nil, err
		}
		amount, err := intProperty(obj, "amount")
		if err != nil {
			return nil, err
		}
		assetValue, err := obj.get("asset")
		if err != nil {
			return nil, err
		}
		asset, err := optionalAssetValue(assetValue)
		if err != nil {
			return nil, err
		}
		return proto.TransferScriptAction{Recipient: rcp, Amount: amount, Asset: asset}, nil
	case "Issue":
		name, err := stringProperty(obj, "name")
		if err != nil {
			return nil, err
		}
		description, err := stringProperty(obj, "description")
		if err != nil {
			return nil, err
		}
		quantity, err := intProperty(obj, "quantity")
		if err != nil {
			return nil, err
		}
		decimals, err := intProperty(obj, "decimals")
		if err != nil {
			return nil, err
		}
		reissuable, err := booleanProperty(obj, "isReissuable")
		if err != nil {
			return nil, err
		}
		nonce, err := intProperty(obj, "nonce")
		if err != nil {
			return nil, err
		}
		id := proto.GenerateIssueScriptActionID(name, description, decimals, quantity, reissuable, nonce, env.TxID)
		return proto.IssueScriptAction{
			ID:          id,
			Name:        name,
			Description: description,
			Quantity:    quantity,
			Decimals:    int32(decimals),
			Reissuable:  reissuable,
			Nonce:       nonce,
		}, nil
	case "Reissue":
		assetID, err := digestProperty(obj, "assetId")
		if err != nil {
			return nil, err
		}
		quantity, err := intProperty(obj, "quantity")
		if err != nil {
			return nil, err
		}
		reissuable, err := booleanProperty(obj, "isReissuable")
		if err != nil {
			return nil, err
		}
		return proto.ReissueScriptAction{AssetID: assetID, Quantity: quantity, Reissuable: reissuable}, nil
	case "Burn":
		assetID, err := digestProperty(obj, "assetId")
		if err != nil {
			return nil, err
		}
		quantity, err := intProperty(obj, "quantity")
		if err != nil {
			return nil, err
		}
		return proto.BurnScriptAction{AssetID: assetID, Quantity: quantity}, nil
	case "SponsorFee":
		assetID, err := digestProperty(obj, "assetId")
		if err != nil {
			return nil, err
		}
		feeValue, err := obj.get("minSponsoredAssetFee")
		if err != nil {
			return nil, err
		}
		var minFee int64
		switch f := feeValue.(type) {
		case rideInt:
			minFee = int64(f)
		case rideUnit:
			minFee = 0
		default:
			return nil, RuntimeError.Errorf("SponsorFee: unexpected fee type '%s'", feeValue.instanceOf())
		}
		return proto.SponsorshipScriptAction{AssetID: assetID, MinFee: minFee}, nil
	case "Lease":
		rcpValue, err := obj.get("recipient")
		if err != nil {
			return nil, err
		}
		rcp, err := recipientArg(env, rcpValue)
		if err != nil {
			return nil, err
		}
		amount, err := intProperty(obj, "amount")
		if err != nil {
			return nil, err
		}
		nonce, err := intProperty(obj, "nonce")
		if err != nil {
			return nil, err
		}
		id := proto.GenerateLeaseScriptActionID(rcp, amount, nonce, env.TxID)
		return proto.LeaseScriptAction{ID: id, Recipient: rcp, Amount: amount, Nonce: nonce}, nil
	case "LeaseCancel":
		leaseID, err := digestProperty(obj, "leaseId")
		if err != nil {
			return nil, err
		}
		return proto.LeaseCancelScriptAction{LeaseID: leaseID}, nil
	default:
		return nil, RuntimeError.Errorf("unexpected action type '%s'", obj.instanceOf())
	}
}

func objectToDataEntry(obj rideObject) (proto.DataEntry, error) {
	key, err := stringProperty(obj, "key")
	if err != nil {
		return nil, err
	}
	value, err := obj.get("value")
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case rideInt:
		return proto.IntegerDataEntry{Key: key, Value: int64(v)}, nil
	case rideBoolean:
		return proto.BooleanDataEntry{Key: key, Value: bool(v)}, nil
	case rideByteVector:
		return proto.BinaryDataEntry{Key: key, Value: v}, nil
	case rideString:
		return proto.StringDataEntry{Key: key, Value: string(v)}, nil
	default:
		return nil, RuntimeError.Errorf("unexpected data entry value type '%s'", value.instanceOf())
	}
}

func stringProperty(obj rideObject, name string) (string, error) {
	v, err := obj.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(rideString)
	if !ok {
		return "", RuntimeError.Errorf("property '%s' is not of type 'String' but '%s'", name, v.instanceOf())
	}
	return string(s), nil
}

func intProperty(obj rideObject, name string) (int64, error) {
	v, err := obj.get(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.(rideInt)
	if !ok {
		return 0, RuntimeError.Errorf("property '%s' is not of type 'Int' but '%s'", name, v.instanceOf())
	}
	return int64(i), nil
}

func booleanProperty(obj rideObject, name string) (bool, error) {
	v, err := obj.get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(rideBoolean)
	if !ok {
		return false, RuntimeError.Errorf("property '%s' is not of type 'Boolean' but '%s'", name, v.instanceOf())
	}
	return bool(b), nil
}

func digestProperty(obj rideObject, name string) (crypto.Digest, error) {
	v, err := obj.get(name)
	if err != nil {
		return crypto.Digest{}, err
	}
	b, ok := v.(rideByteVector)
	if !ok {
		return crypto.Digest{}, RuntimeError.Errorf("property '%s' is not of type 'ByteVector' but '%s'", name, v.instanceOf())
	}
	d, err := crypto.NewDigestFromBytes(b)
	if err != nil {
		return crypto.Digest{}, RuntimeError.Wrap(err, "invalid digest")
	}
	return d, nil
}
