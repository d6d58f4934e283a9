package money

import (
	"math"
	"math/bits"
)

// Amount represents a quantity of currency in the smallest indivisible unit.
// All ledger arithmetic operates on Amount directly; floating point is never
// used outside of display formatting.
type Amount uint64

// MulDiv computes floor(amount * num / den) through a 128-bit intermediate,
// so the multiplication cannot lose precision for any representable Amount.
//
// The quotient must fit back into 64 bits: callers bound their inputs with
// MaxMulDivAmount before calling. A quotient overflow is an engine-fatal
// condition and panics rather than returning a wrong value.
func MulDiv(amount Amount, num, den uint64) Amount {
	hi, lo := bits.Mul64(uint64(amount), num)
	if hi >= den {
		panic("money: quotient overflows 64 bits")
	}
	quo, _ := bits.Div64(hi, lo, den)
	return Amount(quo)
}

// MaxMulDivAmount returns the largest amount for which MulDiv(amount, num, den)
// produces a quotient that fits in 64 bits.
func MaxMulDivAmount(num, den uint64) Amount {
	if num <= den {
		return Amount(math.MaxUint64)
	}
	// hi < num always holds here since den < num
	hi, lo := bits.Mul64(math.MaxUint64, den)
	quo, _ := bits.Div64(hi, lo, num)
	return Amount(quo)
}

// PercentageOf computes floor(amount * num / den), the ledger's only
// percentage primitive. Floor division, never rounding up.
func PercentageOf(amount Amount, num, den uint64) Amount {
	return MulDiv(amount, num, den)
}

// Share computes a single recipient's slice of a royalty pool:
// floor(pool * weight / weightSum). Multiply-before-divide ordering is
// load-bearing; changing it changes the observable payouts.
func Share(pool Amount, weight, weightSum uint64) Amount {
	return MulDiv(pool, weight, weightSum)
}
