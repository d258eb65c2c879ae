package model

import "github.com/shopspring/decimal"

// DenominationCount is the number of notes or coins of one face value.
type DenominationCount struct {
	Denomination int64
	Count        int
}

// Total returns Denomination * Count. It is always computed, never stored.
func (d DenominationCount) Total() decimal.Decimal {
	return decimal.NewFromInt(d.Denomination).Mul(decimal.NewFromInt(int64(d.Count)))
}

// SumDenominations returns the combined value of a set of counts.
func SumDenominations(counts []DenominationCount) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range counts {
		sum = sum.Add(c.Total())
	}
	return sum
}
