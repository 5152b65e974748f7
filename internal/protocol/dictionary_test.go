package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDictionary(t *testing.T) {
	tests := []struct {
		name    string
		dict    Dictionary
		want    []byte
		wantErr error
	}{
		{
			name: "current weather request",
			dict: BuildCurrentWeatherRequest(),
			want: []byte{
				0x01,                   // count
				0x20, 0x00, 0x00, 0x00, // key 32
				0x02,       // uint
				0x01, 0x00, // length 1
				0x01, // value
			},
		},
		{
			name: "empty dictionary",
			dict: Dictionary{},
			want: []byte{0x00},
		},
		{
			name: "cstring and bytes",
			dict: Dictionary{
				NewCStringTuple(7, "hi"),
				NewBytesTuple(8, []byte{0xAA}),
			},
			want: []byte{
				0x02,
				0x07, 0x00, 0x00, 0x00, 0x01, 0x03, 0x00, 'h', 'i', 0x00,
				0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0xAA,
			},
		},
		{
			name:    "invalid integer width",
			dict:    Dictionary{{Key: 1, Type: TupleUint, Value: []byte{1, 2, 3}}},
			wantErr: ErrInvalidWidth,
		},
		{
			name:    "unknown tuple type",
			dict:    Dictionary{{Key: 1, Type: 9, Value: []byte{1}}},
			wantErr: ErrUnknownTupleType,
		},
		{
			name:    "too many tuples",
			dict:    make(Dictionary, MaxTuples+1),
			wantErr: ErrTooManyTuples,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeDictionary(tt.dict)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EncodeDictionary() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeDictionary() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeDictionary() = % x, want % x", got, tt.want)
			}
			if len(got) != tt.dict.EncodedSize() {
				t.Errorf("EncodedSize() = %d, encoded %d bytes", tt.dict.EncodedSize(), len(got))
			}
		})
	}
}

func TestEncodeDictionaryLimit(t *testing.T) {
	dict := Dictionary{NewBytesTuple(1, make([]byte, 100))}

	if _, err := EncodeDictionaryLimit(dict, 50); !errors.Is(err, ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
	if _, err := EncodeDictionaryLimit(dict, 0); err != nil {
		t.Errorf("limit 0 should disable the check, got %v", err)
	}
	if _, err := EncodeDictionaryLimit(dict, dict.EncodedSize()); err != nil {
		t.Errorf("exact limit rejected: %v", err)
	}
}

func TestDecodeDictionary(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
		verify  func(t *testing.T, d Dictionary)
	}{
		{
			name: "round trip of mixed tuples",
			data: mustEncode(t, Dictionary{
				NewUint8Tuple(TagReconnect, 1),
				NewUint16Tuple(2, 0xBEEF),
				NewUint32Tuple(3, 0xDEADBEEF),
				NewInt32Tuple(4, -5),
				NewCStringTuple(5, "London"),
			}),
			verify: func(t *testing.T, d Dictionary) {
				if len(d) != 5 {
					t.Fatalf("len = %d, want 5", len(d))
				}
				if v, err := d[1].Uint(); err != nil || v != 0xBEEF {
					t.Errorf("Uint() = %x, %v", v, err)
				}
				if v, err := d[2].Uint(); err != nil || v != 0xDEADBEEF {
					t.Errorf("Uint() = %x, %v", v, err)
				}
				if v, err := d[3].Int(); err != nil || v != -5 {
					t.Errorf("Int() = %d, %v", v, err)
				}
				if s, err := d[4].CString(); err != nil || s != "London" {
					t.Errorf("CString() = %q, %v", s, err)
				}
			},
		},
		{
			name:    "empty input",
			data:    nil,
			wantErr: ErrTruncated,
		},
		{
			name:    "truncated tuple header",
			data:    []byte{0x01, 0x20, 0x00},
			wantErr: ErrTruncated,
		},
		{
			name:    "truncated value",
			data:    []byte{0x01, 0x21, 0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			wantErr: ErrTruncated,
		},
		{
			name:    "trailing bytes",
			data:    []byte{0x00, 0xFF},
			wantErr: ErrTrailingBytes,
		},
		{
			name:    "bad integer width",
			data:    []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x02, 0x03, 0x00, 1, 2, 3},
			wantErr: ErrInvalidWidth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecodeDictionary(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeDictionary() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDictionary() unexpected error: %v", err)
			}
			tt.verify(t, d)
		})
	}
}

func TestDecodeDictionaryHex(t *testing.T) {
	d, err := DecodeDictionaryHex("01 20000000 02 0100 01")
	if err != nil {
		t.Fatalf("DecodeDictionaryHex() error = %v", err)
	}
	if !d.Has(TagRequestCurrentWeather) {
		t.Errorf("dictionary = %s, want request tag", d)
	}

	if _, err := DecodeDictionaryHex("zz"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestTupleAccessors_TypeMismatch(t *testing.T) {
	u := NewUint8Tuple(1, 1)
	if _, err := u.Bytes(); !errors.Is(err, ErrTupleTypeMismatch) {
		t.Errorf("Bytes() on uint error = %v", err)
	}
	if _, err := u.Int(); !errors.Is(err, ErrTupleTypeMismatch) {
		t.Errorf("Int() on uint error = %v", err)
	}
	if _, err := u.CString(); !errors.Is(err, ErrTupleTypeMismatch) {
		t.Errorf("CString() on uint error = %v", err)
	}
	b := NewBytesTuple(1, []byte{1})
	if _, err := b.Uint(); !errors.Is(err, ErrTupleTypeMismatch) {
		t.Errorf("Uint() on bytes error = %v", err)
	}
}

func TestTuple_BytesIsCopy(t *testing.T) {
	src := []byte{1, 2, 3}
	tup := NewBytesTuple(1, src)
	src[0] = 9
	got, _ := tup.Bytes()
	if got[0] != 1 {
		t.Error("NewBytesTuple aliased its input")
	}
	got[1] = 9
	if tup.Value[1] != 2 {
		t.Error("Bytes() aliased the tuple value")
	}
}

func TestDictionary_FindFirst(t *testing.T) {
	d := Dictionary{NewUint8Tuple(5, 1), NewUint8Tuple(5, 2)}
	tup, ok := d.Find(5)
	if !ok {
		t.Fatal("Find() missed key")
	}
	if v, _ := tup.Uint(); v != 1 {
		t.Errorf("Find() returned value %d, want the first tuple", v)
	}
	if d.Has(6) {
		t.Error("Has(6) = true")
	}
}

func mustEncode(t *testing.T, d Dictionary) []byte {
	t.Helper()
	data, err := EncodeDictionary(d)
	if err != nil {
		t.Fatalf("EncodeDictionary() error = %v", err)
	}
	return data
}
