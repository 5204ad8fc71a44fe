package shop

import "fmt"

// InvalidOrderError reports malformed or referentially invalid checkout
// input: empty items, missing address, non-positive quantity, or an unknown
// product. ProductID is set when a specific product was the problem.
type InvalidOrderError struct {
	Reason    string
	ProductID string
}

func (e *InvalidOrderError) Error() string { return e.Reason }

// InsufficientStockError reports a requested quantity above available stock
// for a named product.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d",
		e.Product, e.Available, e.Requested)
}

// PaymentDeclinedError reports a declined charge from the payment gateway.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string { return "Payment failed: " + e.Reason }
