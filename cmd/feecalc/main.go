package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sudo-init-do/gigmarket/internal/payments"
)

// feecalc prints the platform fee breakdown for an order amount.
func main() {
	amount := flag.Float64("amount", 0, "order amount")
	flag.Parse()

	breakdown, err := payments.CalculateFees(*amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feecalc: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Order amount:    %s\n", breakdown.OrderAmount)
	fmt.Printf("Seller fee:      %s (%s)\n", breakdown.SellerFee, breakdown.SellerFeePercentage)
	fmt.Printf("Seller receives: %s\n", breakdown.SellerReceives)
	fmt.Printf("Buyer fee:       %s (%s)\n", breakdown.BuyerFee, breakdown.BuyerFeePercentage)
	fmt.Printf("Buyer pays:      %s\n", breakdown.BuyerPays)
	fmt.Printf("Platform fees:   %s\n", breakdown.PlatformFees)
}
