package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/royalty-ledger/internal/money"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		amount   money.Amount
		num      uint64
		den      uint64
		expected money.Amount
	}{
		{
			name:     "exact division",
			amount:   1000,
			num:      10,
			den:      100,
			expected: 100,
		},
		{
			name:     "floors the quotient",
			amount:   19,
			num:      10,
			den:      100,
			expected: 1,
		},
		{
			name:     "below one unit floors to zero",
			amount:   9,
			num:      10,
			den:      100,
			expected: 0,
		},
		{
			name:     "escalation of one unit floors down",
			amount:   1,
			num:      110,
			den:      100,
			expected: 1,
		},
		{
			name:     "multiply before divide keeps precision",
			amount:   333,
			num:      110,
			den:      100,
			expected: 366, // floor(333*110/100), not floor(333/100)*110
		},
		{
			name:     "intermediate product exceeds 64 bits",
			amount:   math.MaxUint64,
			num:      10,
			den:      100,
			expected: money.Amount(math.MaxUint64 / 10),
		},
		{
			name:     "zero amount",
			amount:   0,
			num:      110,
			den:      100,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, money.MulDiv(tt.amount, tt.num, tt.den))
		})
	}
}

func TestMulDivPanicsOnQuotientOverflow(t *testing.T) {
	assert.Panics(t, func() {
		money.MulDiv(math.MaxUint64, 110, 100)
	})
}

func TestMaxMulDivAmount(t *testing.T) {
	t.Run("shrinking ratio never overflows", func(t *testing.T) {
		assert.Equal(t, money.Amount(math.MaxUint64), money.MaxMulDivAmount(10, 100))
	})

	t.Run("growing ratio bounds the input", func(t *testing.T) {
		limit := money.MaxMulDivAmount(110, 100)

		assert.NotPanics(t, func() {
			money.MulDiv(limit, 110, 100)
		})
		assert.Panics(t, func() {
			money.MulDiv(limit+1, 110, 100)
		})
	})
}

func TestShare(t *testing.T) {
	// A pool of 100 split across weights 3,2,1 (sum 6) floors every slice
	pool := money.Amount(100)

	assert.Equal(t, money.Amount(50), money.Share(pool, 3, 6))
	assert.Equal(t, money.Amount(33), money.Share(pool, 2, 6))
	assert.Equal(t, money.Amount(16), money.Share(pool, 1, 6))

	// 50+33+16 = 99: one unit of remainder is never redistributed
	total := money.Share(pool, 3, 6) + money.Share(pool, 2, 6) + money.Share(pool, 1, 6)
	assert.Equal(t, money.Amount(99), total)
}

func TestPercentageOf(t *testing.T) {
	assert.Equal(t, money.Amount(100), money.PercentageOf(1000, 10, 100))
	assert.Equal(t, money.Amount(1100), money.PercentageOf(1000, 110, 100))
	assert.Equal(t, money.Amount(0), money.PercentageOf(5, 10, 100))
}
