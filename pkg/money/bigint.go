package money

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// BigInt is a wrapper around big.Int whose JSON form is the tagged object
// {"type":"bigint","value":"<decimal string>"}. Balances routinely exceed
// the safe-integer range of JSON consumers, so plain numbers are never
// emitted. Unmarshaling additionally accepts a bare decimal string or a
// JSON number so ledgers persisted by older builds still decode.
type BigInt struct {
	*big.Int
}

// taggedBigInt is the persisted representation of a BigInt.
type taggedBigInt struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// NewBigInt creates a new BigInt from a big.Int
func NewBigInt(i *big.Int) *BigInt {
	if i == nil {
		return nil
	}
	return &BigInt{Int: i}
}

// NewBigIntFromInt64 creates a new BigInt from an int64
func NewBigIntFromInt64(i int64) *BigInt {
	return &BigInt{Int: big.NewInt(i)}
}

// NewBigIntFromString creates a new BigInt from a decimal string
func NewBigIntFromString(s string) (*BigInt, bool) {
	i := new(big.Int)
	if _, ok := i.SetString(s, 10); !ok {
		return nil, false
	}
	return &BigInt{Int: i}, true
}

// Zero returns a new zero-valued BigInt
func Zero() *BigInt {
	return &BigInt{Int: big.NewInt(0)}
}

// MarshalJSON implements json.Marshaler
func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil || b.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(taggedBigInt{Type: "bigint", Value: b.Int.String()})
}

// UnmarshalJSON implements json.Unmarshaler
// Supports: {"type":"bigint","value":"123"}, "123", 123, null
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.Int = nil
		return nil
	}

	// Tagged object form (the persisted layout)
	var tagged taggedBigInt
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.Type == "bigint" {
		i := new(big.Int)
		if _, ok := i.SetString(tagged.Value, 10); !ok {
			return fmt.Errorf("invalid bigint value: %q", tagged.Value)
		}
		b.Int = i
		return nil
	}

	// Bare string form
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i := new(big.Int)
		if _, ok := i.SetString(s, 10); !ok {
			return fmt.Errorf("invalid BigInt string: %s", s)
		}
		b.Int = i
		return nil
	}

	// Number form (legacy data within safe-integer range)
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		i := new(big.Int)
		if _, ok := i.SetString(n.String(), 10); !ok {
			return fmt.Errorf("invalid BigInt number: %s", n.String())
		}
		b.Int = i
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into BigInt", string(data))
}

// ToBigInt returns the underlying *big.Int
func (b *BigInt) ToBigInt() *big.Int {
	if b == nil {
		return nil
	}
	return b.Int
}

// Clone returns an independent copy of the BigInt
func (b *BigInt) Clone() *BigInt {
	if b == nil || b.Int == nil {
		return nil
	}
	return &BigInt{Int: new(big.Int).Set(b.Int)}
}

// IsNil returns true if the BigInt is nil
func (b *BigInt) IsNil() bool {
	return b == nil || b.Int == nil
}

// IsZero returns true if the BigInt is zero
func (b *BigInt) IsZero() bool {
	return b.IsNil() || b.Int.Sign() == 0
}

// IsPositive returns true if the BigInt is positive (> 0)
func (b *BigInt) IsPositive() bool {
	return !b.IsNil() && b.Int.Sign() > 0
}
