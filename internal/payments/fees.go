package payments

import (
	"errors"
	"fmt"
)

const (
	sellerFeePercent = 10
	buyerFeePercent  = 3
)

// FeeBreakdown itemizes the platform take on one order. Amounts are
// rendered as two-decimal strings, the form clients display them in.
type FeeBreakdown struct {
	OrderAmount         string `json:"order_amount"`
	SellerFee           string `json:"seller_fee"`
	SellerFeePercentage string `json:"seller_fee_percentage"`
	SellerReceives      string `json:"seller_receives"`
	BuyerFee            string `json:"buyer_fee"`
	BuyerFeePercentage  string `json:"buyer_fee_percentage"`
	BuyerPays           string `json:"buyer_pays"`
	PlatformFees        string `json:"platform_fees"`
}

// CalculateFees computes both sides of the platform fee for one order
// amount. The seller side is deducted, the buyer side added on top.
func CalculateFees(orderAmount float64) (FeeBreakdown, error) {
	if orderAmount <= 0 {
		return FeeBreakdown{}, errors.New("order amount must be greater than zero")
	}

	sellerFee := orderAmount * sellerFeePercent / 100
	buyerFee := orderAmount * buyerFeePercent / 100

	money := func(v float64) string { return fmt.Sprintf("%.2f", v) }

	return FeeBreakdown{
		OrderAmount:         money(orderAmount),
		SellerFee:           money(sellerFee),
		SellerFeePercentage: fmt.Sprintf("%d%%", sellerFeePercent),
		SellerReceives:      money(orderAmount - sellerFee),
		BuyerFee:            money(buyerFee),
		BuyerFeePercentage:  fmt.Sprintf("%d%%", buyerFeePercent),
		BuyerPays:           money(orderAmount + buyerFee),
		PlatformFees:        money(sellerFee + buyerFee),
	}, nil
}
