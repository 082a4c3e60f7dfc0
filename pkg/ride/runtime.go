package ride

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/wavesplatform/txdiff/pkg/proto"
)

const (
	maxByteVectorSize = 32 * 1024
	maxStringSize     = 32767
	maxListSize       = 1000
)

const (
	booleanTypeName    = "Boolean"
	intTypeName        = "Int"
	stringTypeName     = "String"
	byteVectorTypeName = "ByteVector"
	unitTypeName       = "Unit"
	listTypeName       = "List[Any]"
	tupleTypeName      = "Tuple"
	addressTypeName    = "Address"
	aliasTypeName      = "Alias"
)

// rideType is a value of the script runtime. Every value knows its type
// name, compares itself structurally, provides property access and renders
// a canonical textual form used in evaluation logs.
type rideType interface {
	instanceOf() string
	eq(other rideType) bool
	get(prop string) (rideType, error)
	String() string
}

type rideBoolean bool

func (b rideBoolean) instanceOf() string {
	return booleanTypeName
}

func (b rideBoolean) eq(other rideType) bool {
	if o, ok := other.(rideBoolean); ok {
		return b == o
	}
	return false
}

func (b rideBoolean) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", b.instanceOf(), prop)
}

func (b rideBoolean) String() string {
	return strconv.FormatBool(bool(b))
}

type rideInt int64

func (l rideInt) instanceOf() string {
	return intTypeName
}

func (l rideInt) eq(other rideType) bool {
	if o, ok := other.(rideInt); ok {
		return l == o
	}
	return false
}

func (l rideInt) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", l.instanceOf(), prop)
}

func (l rideInt) String() string {
	return strconv.FormatInt(int64(l), 10)
}

type rideString string

func (s rideString) instanceOf() string {
	return stringTypeName
}

func (s rideString) eq(other rideType) bool {
	if o, ok := other.(rideString); ok {
		return s == o
	}
	return false
}

func (s rideString) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", s.instanceOf(), prop)
}

func (s rideString) String() string {
	return "\"" + string(s) + "\""
}

type rideByteVector []byte

func (b rideByteVector) instanceOf() string {
	return byteVectorTypeName
}

func (b rideByteVector) eq(other rideType) bool {
	o, ok := other.(rideByteVector)
	if !ok {
		return false
	}
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

func (b rideByteVector) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", b.instanceOf(), prop)
}

func (b rideByteVector) String() string {
	return "base58'" + base58.Encode(b) + "'"
}

type rideUnit struct{}

func (u rideUnit) instanceOf() string {
	return unitTypeName
}

func (u rideUnit) eq(other rideType) bool {
	_, ok := other.(rideUnit)
	return ok
}

func (u rideUnit) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", u.instanceOf(), prop)
}

func (u rideUnit) String() string {
	return "Unit"
}

type rideList []rideType

func (l rideList) instanceOf() string {
	return listTypeName
}

func (l rideList) eq(other rideType) bool {
	o, ok := other.(rideList)
	if !ok {
		return false
	}
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].eq(o[i]) {
			return false
		}
	}
	return true
}

func (l rideList) get(prop string) (rideType, error) {
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", l.instanceOf(), prop)
}

func (l rideList) String() string {
	items := make([]string, len(l))
	for i, item := range l {
		items[i] = item.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

type rideTuple []rideType

func (t rideTuple) instanceOf() string {
	return fmt.Sprintf("(%s)", tupleTypeName)
}

func (t rideTuple) eq(other rideType) bool {
	o, ok := other.(rideTuple)
	if !ok || len(t) != len(o) {
		return false
	}
	for i := range t {
		if !t[i].eq(o[i]) {
			return false
		}
	}
	return true
}

func (t rideTuple) get(prop string) (rideType, error) {
	if strings.HasPrefix(prop, "_") {
		i, err := strconv.Atoi(prop[1:])
		if err == nil && i >= 1 && i <= len(t) {
			return t[i-1], nil
		}
	}
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", t.instanceOf(), prop)
}

func (t rideTuple) String() string {
	items := make([]string, len(t))
	for i, item := range t {
		items[i] = item.String()
	}
	return "(" + strings.Join(items, ", ") + ")"
}

type objectField struct {
	name  string
	value rideType
}

// rideObject is a case object: a type name plus ordered named fields. Field
// order is preserved so the log rendering is deterministic.
type rideObject struct {
	name   string
	fields []objectField
}

func newRideObject(name string, fields ...objectField) rideObject {
	return rideObject{name: name, fields: fields}
}

func (o rideObject) instanceOf() string {
	return o.name
}

func (o rideObject) eq(other rideType) bool {
	oo, ok := other.(rideObject)
	if !ok || o.name != oo.name || len(o.fields) != len(oo.fields) {
		return false
	}
	for i, f := range o.fields {
		if f.name != oo.fields[i].name || !f.value.eq(oo.fields[i].value) {
			return false
		}
	}
	return true
}

func (o rideObject) get(prop string) (rideType, error) {
	for _, f := range o.fields {
		if f.name == prop {
			return f.value, nil
		}
	}
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", o.name, prop)
}

func (o rideObject) String() string {
	parts := make([]string, len(o.fields))
	for i, f := range o.fields {
		parts[i] = f.name + " = " + f.value.String()
	}
	return o.name + "(" + strings.Join(parts, ", ") + ")"
}

type rideAddress proto.Address

func (a rideAddress) instanceOf() string {
	return addressTypeName
}

func (a rideAddress) eq(other rideType) bool {
	switch o := other.(type) {
	case rideAddress:
		return proto.Address(a) == proto.Address(o)
	case rideByteVector:
		return rideByteVector(a[:]).eq(o)
	default:
		return false
	}
}

func (a rideAddress) get(prop string) (rideType, error) {
	if prop == "bytes" {
		return rideByteVector(a[:]), nil
	}
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", a.instanceOf(), prop)
}

func (a rideAddress) String() string {
	return "Address(bytes = base58'" + proto.Address(a).String() + "')"
}

type rideAlias proto.Alias

func (a rideAlias) instanceOf() string {
	return aliasTypeName
}

func (a rideAlias) eq(other rideType) bool {
	if o, ok := other.(rideAlias); ok {
		return a.Alias == o.Alias && a.Scheme == o.Scheme
	}
	return false
}

func (a rideAlias) get(prop string) (rideType, error) {
	if prop == "alias" {
		return rideString(a.Alias), nil
	}
	return nil, RuntimeError.Errorf("type '%s' has no property '%s'", a.instanceOf(), prop)
}

func (a rideAlias) String() string {
	return "Alias(alias = \"" + a.Alias + "\")"
}

func newByteVector(b []byte) (rideType, error) {
	if len(b) > maxByteVectorSize {
		return nil, LimitExceeded.Errorf("byte vector size %d exceeds limit %d", len(b), maxByteVectorSize)
	}
	return rideByteVector(b), nil
}

func newString(s string) (rideType, error) {
	if len(s) > maxStringSize {
		return nil, LimitExceeded.Errorf("string size %d exceeds limit %d", len(s), maxStringSize)
	}
	return rideString(s), nil
}

func newList(items []rideType) (rideType, error) {
	if len(items) > maxListSize {
		return nil, LimitExceeded.Errorf("list size %d exceeds limit %d", len(items), maxListSize)
	}
	return rideList(items), nil
}
