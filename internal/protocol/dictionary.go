package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Dictionary wire constants
const (
	DictionaryHeaderSize = 1     // count (u8)
	TupleHeaderSize      = 7     // key (u32) + type (u8) + length (u16)
	MaxTuples            = 255   // count is a single byte
	MaxTupleValueSize    = 65535 // length is a u16
)

// Default message size bounds of the watch runtime's app-message buffers
const (
	DefaultMaxInboundSize  = 2026
	DefaultMaxOutboundSize = 656
)

// TupleType identifies how a tuple value is interpreted.
type TupleType uint8

const (
	TupleByteArray TupleType = 0
	TupleCString   TupleType = 1
	TupleUint      TupleType = 2
	TupleInt       TupleType = 3
)

func (t TupleType) String() string {
	switch t {
	case TupleByteArray:
		return "bytes"
	case TupleCString:
		return "cstring"
	case TupleUint:
		return "uint"
	case TupleInt:
		return "int"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

var (
	ErrTooManyTuples     = errors.New("protocol: too many tuples")
	ErrValueTooLarge     = errors.New("protocol: tuple value too large")
	ErrInvalidWidth      = errors.New("protocol: invalid integer width")
	ErrUnknownTupleType  = errors.New("protocol: unknown tuple type")
	ErrTruncated         = errors.New("protocol: truncated dictionary")
	ErrTrailingBytes     = errors.New("protocol: trailing bytes after dictionary")
	ErrTooLarge          = errors.New("protocol: encoded dictionary exceeds size limit")
	ErrTupleTypeMismatch = errors.New("protocol: tuple type mismatch")
)

// Tuple is one key/value entry of a Dictionary.
// Integer values are stored little-endian with a width of 1, 2 or 4 bytes.
type Tuple struct {
	Key   uint32
	Type  TupleType
	Value []byte
}

// NewUint8Tuple creates a 1-byte unsigned tuple.
func NewUint8Tuple(key uint32, v uint8) Tuple {
	return Tuple{Key: key, Type: TupleUint, Value: []byte{v}}
}

// NewUint16Tuple creates a 2-byte unsigned tuple.
func NewUint16Tuple(key uint32, v uint16) Tuple {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return Tuple{Key: key, Type: TupleUint, Value: buf}
}

// NewUint32Tuple creates a 4-byte unsigned tuple.
func NewUint32Tuple(key uint32, v uint32) Tuple {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return Tuple{Key: key, Type: TupleUint, Value: buf}
}

// NewInt32Tuple creates a 4-byte signed tuple.
func NewInt32Tuple(key uint32, v int32) Tuple {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return Tuple{Key: key, Type: TupleInt, Value: buf}
}

// NewBytesTuple creates a byte array tuple. The value is copied.
func NewBytesTuple(key uint32, v []byte) Tuple {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Tuple{Key: key, Type: TupleByteArray, Value: buf}
}

// NewCStringTuple creates a NUL terminated string tuple.
func NewCStringTuple(key uint32, v string) Tuple {
	buf := make([]byte, len(v)+1)
	copy(buf, v)
	return Tuple{Key: key, Type: TupleCString, Value: buf}
}

// Uint returns the tuple value as an unsigned integer.
func (t Tuple) Uint() (uint32, error) {
	if t.Type != TupleUint {
		return 0, ErrTupleTypeMismatch
	}
	return readUint(t.Value)
}

// Int returns the tuple value as a signed integer.
func (t Tuple) Int() (int32, error) {
	if t.Type != TupleInt {
		return 0, ErrTupleTypeMismatch
	}
	switch len(t.Value) {
	case 1:
		return int32(int8(t.Value[0])), nil
	case 2:
		return int32(int16(binary.LittleEndian.Uint16(t.Value))), nil
	case 4:
		return int32(binary.LittleEndian.Uint32(t.Value)), nil
	default:
		return 0, ErrInvalidWidth
	}
}

// Bytes returns a copy of a byte array tuple value.
func (t Tuple) Bytes() ([]byte, error) {
	if t.Type != TupleByteArray {
		return nil, ErrTupleTypeMismatch
	}
	buf := make([]byte, len(t.Value))
	copy(buf, t.Value)
	return buf, nil
}

// CString returns a string tuple value up to its terminator.
func (t Tuple) CString() (string, error) {
	if t.Type != TupleCString {
		return "", ErrTupleTypeMismatch
	}
	return cString(t.Value), nil
}

func (t Tuple) String() string {
	switch t.Type {
	case TupleUint:
		if v, err := t.Uint(); err == nil {
			return fmt.Sprintf("%s=%d", TagName(t.Key), v)
		}
	case TupleInt:
		if v, err := t.Int(); err == nil {
			return fmt.Sprintf("%s=%d", TagName(t.Key), v)
		}
	case TupleCString:
		return fmt.Sprintf("%s=%q", TagName(t.Key), cString(t.Value))
	}
	return fmt.Sprintf("%s=<%s %d bytes>", TagName(t.Key), t.Type, len(t.Value))
}

func readUint(b []byte) (uint32, error) {
	switch len(b) {
	case 1:
		return uint32(b[0]), nil
	case 2:
		return uint32(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return binary.LittleEndian.Uint32(b), nil
	default:
		return 0, ErrInvalidWidth
	}
}

// Dictionary is an ordered set of tuples, the unit exchanged with the companion.
type Dictionary []Tuple

// Find returns the first tuple with the given key.
func (d Dictionary) Find(key uint32) (Tuple, bool) {
	for _, t := range d {
		if t.Key == key {
			return t, true
		}
	}
	return Tuple{}, false
}

// Has reports whether the dictionary holds a tuple for key.
func (d Dictionary) Has(key uint32) bool {
	_, ok := d.Find(key)
	return ok
}

// Keys returns the tuple keys in order.
func (d Dictionary) Keys() []uint32 {
	keys := make([]uint32, 0, len(d))
	for _, t := range d {
		keys = append(keys, t.Key)
	}
	return keys
}

// EncodedSize returns the number of bytes EncodeDictionary produces.
func (d Dictionary) EncodedSize() int {
	size := DictionaryHeaderSize
	for _, t := range d {
		size += TupleHeaderSize + len(t.Value)
	}
	return size
}

func (d Dictionary) String() string {
	parts := make([]string, 0, len(d))
	for _, t := range d {
		parts = append(parts, t.String())
	}
	return "Dictionary{" + strings.Join(parts, ", ") + "}"
}

// EncodeDictionary serializes a dictionary.
//
// Wire Format:
//
//	[0]       count          Number of tuples (u8)
//	per tuple:
//	[+0..3]   key            Tuple key (little-endian u32)
//	[+4]      type           TupleType
//	[+5..6]   length         Value length (little-endian u16)
//	[+7..]    value          Value bytes
func EncodeDictionary(d Dictionary) ([]byte, error) {
	if len(d) > MaxTuples {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyTuples, len(d), MaxTuples)
	}

	buf := make([]byte, 0, d.EncodedSize())
	buf = append(buf, byte(len(d)))

	for _, t := range d {
		if err := validateTuple(t); err != nil {
			return nil, fmt.Errorf("tuple %s: %w", TagName(t.Key), err)
		}
		buf = binary.LittleEndian.AppendUint32(buf, t.Key)
		buf = append(buf, byte(t.Type))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Value)))
		buf = append(buf, t.Value...)
	}

	return buf, nil
}

// EncodeDictionaryLimit serializes a dictionary and rejects results over limit bytes.
func EncodeDictionaryLimit(d Dictionary, limit int) ([]byte, error) {
	if size := d.EncodedSize(); limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, size, limit)
	}
	return EncodeDictionary(d)
}

func validateTuple(t Tuple) error {
	if len(t.Value) > MaxTupleValueSize {
		return fmt.Errorf("%w: %d bytes", ErrValueTooLarge, len(t.Value))
	}
	switch t.Type {
	case TupleByteArray, TupleCString:
		return nil
	case TupleUint, TupleInt:
		switch len(t.Value) {
		case 1, 2, 4:
			return nil
		default:
			return fmt.Errorf("%w: %d bytes", ErrInvalidWidth, len(t.Value))
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTupleType, uint8(t.Type))
	}
}

// DecodeDictionary parses a serialized dictionary.
// Tuple values alias data.
func DecodeDictionary(data []byte) (Dictionary, error) {
	if len(data) < DictionaryHeaderSize {
		return nil, fmt.Errorf("%w: empty message", ErrTruncated)
	}

	count := int(data[0])
	d := make(Dictionary, 0, count)
	offset := DictionaryHeaderSize

	for i := 0; i < count; i++ {
		if len(data)-offset < TupleHeaderSize {
			return nil, fmt.Errorf("%w: tuple %d header at offset %d", ErrTruncated, i, offset)
		}

		t := Tuple{
			Key:  binary.LittleEndian.Uint32(data[offset : offset+4]),
			Type: TupleType(data[offset+4]),
		}
		length := int(binary.LittleEndian.Uint16(data[offset+5 : offset+7]))
		offset += TupleHeaderSize

		if len(data)-offset < length {
			return nil, fmt.Errorf("%w: tuple %d value needs %d bytes, have %d",
				ErrTruncated, i, length, len(data)-offset)
		}
		t.Value = data[offset : offset+length]
		offset += length

		if err := validateTuple(t); err != nil {
			return nil, fmt.Errorf("tuple %s: %w", TagName(t.Key), err)
		}
		d = append(d, t)
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d", ErrTrailingBytes, len(data)-offset)
	}

	return d, nil
}

// DecodeDictionaryHex parses a hex encoded dictionary. Whitespace is ignored.
func DecodeDictionaryHex(s string) (Dictionary, error) {
	clean := strings.Join(strings.Fields(s), "")
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return DecodeDictionary(data)
}

// cString returns b up to its first NUL byte.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
