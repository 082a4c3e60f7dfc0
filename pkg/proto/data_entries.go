package proto

import (
	"fmt"
	"unicode/utf8"

	"github.com/wavesplatform/txdiff/pkg/errs"
)

type DataValueType byte

const (
	DataInteger DataValueType = iota
	DataBoolean
	DataBinary
	DataString
	DataDelete
)

func (t DataValueType) String() string {
	switch t {
	case DataInteger:
		return "integer"
	case DataBoolean:
		return "boolean"
	case DataBinary:
		return "binary"
	case DataString:
		return "string"
	case DataDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// DataEntry is a key-value pair of an account data storage. The Delete
// variant removes the key.
type DataEntry interface {
	GetKey() string
	GetValueType() DataValueType
	PayloadSize() int
}

type IntegerDataEntry struct {
	Key   string
	Value int64
}

func (e IntegerDataEntry) GetKey() string {
	return e.Key
}

func (e IntegerDataEntry) GetValueType() DataValueType {
	return DataInteger
}

func (e IntegerDataEntry) PayloadSize() int {
	return len(e.Key) + 8
}

type BooleanDataEntry struct {
	Key   string
	Value bool
}

func (e BooleanDataEntry) GetKey() string {
	return e.Key
}

func (e BooleanDataEntry) GetValueType() DataValueType {
	return DataBoolean
}

func (e BooleanDataEntry) PayloadSize() int {
	return len(e.Key) + 1
}

type BinaryDataEntry struct {
	Key   string
	Value []byte
}

func (e BinaryDataEntry) GetKey() string {
	return e.Key
}

func (e BinaryDataEntry) GetValueType() DataValueType {
	return DataBinary
}

func (e BinaryDataEntry) PayloadSize() int {
	return len(e.Key) + len(e.Value)
}

type StringDataEntry struct {
	Key   string
	Value string
}

func (e StringDataEntry) GetKey() string {
	return e.Key
}

func (e StringDataEntry) GetValueType() DataValueType {
	return DataString
}

func (e StringDataEntry) PayloadSize() int {
	return len(e.Key) + len(e.Value)
}

// DeleteDataEntry removes the key from the account data storage.
type DeleteDataEntry struct {
	Key string
}

func (e DeleteDataEntry) GetKey() string {
	return e.Key
}

func (e DeleteDataEntry) GetValueType() DataValueType {
	return DataDelete
}

func (e DeleteDataEntry) PayloadSize() int {
	return len(e.Key)
}

type DataEntries []DataEntry

// PayloadSize is the total byte size of keys and values, used for fee and
// write-set limit calculations.
func (e DataEntries) PayloadSize() int {
	size := 0
	for _, entry := range e {
		size += entry.PayloadSize()
	}
	return size
}

// ValidateEntry checks a single entry against key limits. Empty keys are
// rejected when forbidEmptyKey is set (library V4 and later).
func ValidateEntry(entry DataEntry, maxKeySize int, forbidEmptyKey bool) error {
	key := entry.GetKey()
	if !utf8.ValidString(key) {
		return errs.NewTxValidationError("invalid UTF-8 in data entry key")
	}
	if forbidEmptyKey && len(key) == 0 {
		return errs.NewEmptyDataKey("empty data key is not allowed")
	}
	if l := len(key); l > maxKeySize {
		return errs.NewTooBigArray(fmt.Sprintf("data entry key size %d exceeds limit %d", l, maxKeySize))
	}
	return nil
}

// Valid checks entries of a data transaction: individual keys, duplicates
// and the total count.
func (e DataEntries) Valid(maxKeySize int, forbidEmptyKey bool) error {
	if len(e) > MaxDataEntries {
		return errs.NewTooBigArray(fmt.Sprintf("%d data entries exceed the limit of %d", len(e), MaxDataEntries))
	}
	seen := make(map[string]struct{}, len(e))
	for _, entry := range e {
		if err := ValidateEntry(entry, maxKeySize, forbidEmptyKey); err != nil {
			return err
		}
		key := entry.GetKey()
		if _, ok := seen[key]; ok {
			return errs.NewDuplicatedDataKeys(fmt.Sprintf("duplicate key '%s'", key))
		}
		seen[key] = struct{}{}
	}
	return nil
}
