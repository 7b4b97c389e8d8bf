package core

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SplitSettlement divides the winning bid between the seller and the platform
// fee pool. Uses decimal arithmetic so the split is exact at any precision.
//
//	platformFee  = floor(highestBid * feePercent / 100)
//	sellerAmount = highestBid - platformFee
//
// The two parts always sum back to highestBid, so settlement conserves value.
func SplitSettlement(highestBid decimal.Decimal, feePercent uint32) (sellerAmount, platformFee decimal.Decimal) {
	platformFee = highestBid.
		Mul(decimal.NewFromInt(int64(feePercent))).
		Div(oneHundred).
		Floor()
	sellerAmount = highestBid.Sub(platformFee)
	return sellerAmount, platformFee
}
