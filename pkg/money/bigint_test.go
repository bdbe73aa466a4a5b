package money_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/pkg/money"
)

func TestBigInt_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    *money.BigInt
		expected string
	}{
		{
			name:     "positive value",
			input:    money.NewBigIntFromInt64(120000000000),
			expected: `{"type":"bigint","value":"120000000000"}`,
		},
		{
			name:     "zero",
			input:    money.Zero(),
			expected: `{"type":"bigint","value":"0"}`,
		},
		{
			name:     "negative value",
			input:    money.NewBigIntFromInt64(-1333333333),
			expected: `{"type":"bigint","value":"-1333333333"}`,
		},
		{
			name:     "nil",
			input:    nil,
			expected: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestBigInt_MarshalJSON_BeyondSafeInteger(t *testing.T) {
	// 2^63 is past both int64 and the float64 safe-integer range
	huge := new(big.Int).Lsh(big.NewInt(1), 63)
	data, err := json.Marshal(money.NewBigInt(huge))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"bigint","value":"9223372036854775808"}`, string(data))
}

func TestBigInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "tagged object",
			input:    `{"type":"bigint","value":"120000000000"}`,
			expected: "120000000000",
		},
		{
			name:     "tagged object beyond 2^53",
			input:    `{"type":"bigint","value":"18446744073709551616"}`,
			expected: "18446744073709551616",
		},
		{
			name:     "bare string",
			input:    `"50000000000"`,
			expected: "50000000000",
		},
		{
			name:     "number",
			input:    `42000000000`,
			expected: "42000000000",
		},
		{
			name:    "tagged object with garbage value",
			input:   `{"type":"bigint","value":"not-a-number"}`,
			wantErr: true,
		},
		{
			name:    "invalid string",
			input:   `"12x34"`,
			wantErr: true,
		},
		{
			name:    "unsupported shape",
			input:   `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b money.BigInt
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.String())
		})
	}
}

func TestBigInt_UnmarshalJSON_Null(t *testing.T) {
	b := money.NewBigIntFromInt64(1)
	require.NoError(t, json.Unmarshal([]byte(`null`), b))
	assert.True(t, b.IsNil())
}

func TestBigInt_RoundTrip(t *testing.T) {
	values := []string{
		"0",
		"1",
		"120000000000",
		"9007199254740993",      // 2^53 + 1, not representable as float64
		"340282366920938463463", // well past uint64
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			orig, ok := money.NewBigIntFromString(v)
			require.True(t, ok)

			data, err := json.Marshal(orig)
			require.NoError(t, err)

			var decoded money.BigInt
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Zero(t, orig.Cmp(decoded.Int))
		})
	}
}

func TestBigInt_Predicates(t *testing.T) {
	assert.True(t, money.Zero().IsZero())
	assert.False(t, money.Zero().IsPositive())
	assert.True(t, money.NewBigIntFromInt64(5).IsPositive())
	assert.False(t, money.NewBigIntFromInt64(-5).IsPositive())

	var nilBig *money.BigInt
	assert.True(t, nilBig.IsNil())
	assert.True(t, nilBig.IsZero())
	assert.Nil(t, nilBig.Clone())
}

func TestBigInt_Clone(t *testing.T) {
	orig := money.NewBigIntFromInt64(100)
	clone := orig.Clone()
	clone.Add(clone.Int, big.NewInt(1))
	assert.Equal(t, "100", orig.String())
	assert.Equal(t, "101", clone.String())
}
