package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestSplitSettlement_ConservesValue(t *testing.T) {
	cases := []struct {
		bid        string
		feePercent uint32
	}{
		{"25", 5},
		{"100", 10},
		{"1", 10},
		{"999999999", 3},
		{"10.75", 5},
		{"0.01", 10},
	}

	for _, tc := range cases {
		bid := decimal.RequireFromString(tc.bid)
		seller, fee := SplitSettlement(bid, tc.feePercent)

		// seller_amount + platform_fee == highest_bid, always
		check.True(t, seller.Add(fee).Equal(bid))
		check.False(t, fee.IsNegative())
		check.False(t, seller.IsNegative())
	}
}

func TestSplitSettlement_FloorsFee(t *testing.T) {
	// floor(25 * 5 / 100) = floor(1.25) = 1
	seller, fee := SplitSettlement(decimal.NewFromInt(25), 5)
	check.True(t, fee.Equal(decimal.NewFromInt(1)))
	check.True(t, seller.Equal(decimal.NewFromInt(24)))

	// floor(99 * 10 / 100) = floor(9.9) = 9
	seller, fee = SplitSettlement(decimal.NewFromInt(99), 10)
	check.True(t, fee.Equal(decimal.NewFromInt(9)))
	check.True(t, seller.Equal(decimal.NewFromInt(90)))
}

func TestSplitSettlement_ZeroFeePercent(t *testing.T) {
	seller, fee := SplitSettlement(decimal.NewFromInt(1000), 0)
	check.True(t, fee.IsZero())
	check.True(t, seller.Equal(decimal.NewFromInt(1000)))
}

func TestSplitSettlement_SmallBidRoundsFeeToZero(t *testing.T) {
	// floor(9 * 10 / 100) = 0: the whole bid goes to the seller
	seller, fee := SplitSettlement(decimal.NewFromInt(9), 10)
	check.True(t, fee.IsZero())
	check.True(t, seller.Equal(decimal.NewFromInt(9)))
}
