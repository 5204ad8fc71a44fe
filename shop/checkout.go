// Package shop implements the checkout workflow on top of the document
// store: multi-item stock validation, inventory decrement, simulated
// payment, and order creation.
package shop

import (
	"fmt"
	"time"

	"github.com/stevemurr/simple-shop-server/store"
)

// ItemRequest is one line of a checkout request.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Checkout orchestrates the order transaction. Stock is validated and
// decremented against a single product snapshot loaded up front, so one call
// cannot oversell across its own items, even when several items reference
// the same product. Nothing serializes concurrent checkouts: two calls can
// read the same on_hand value and both persist decrements, losing one
// update. Known limitation of the flat-file store, see DESIGN.md.
type Checkout struct {
	store *store.DocumentStore
	pay   PaymentFunc
	now   func() time.Time
}

// NewCheckout creates the workflow. A nil pay falls back to SimulatePayment.
func NewCheckout(s *store.DocumentStore, pay PaymentFunc) *Checkout {
	if pay == nil {
		pay = SimulatePayment
	}
	return &Checkout{store: s, pay: pay, now: time.Now}
}

// PlaceOrder validates the requested items against current stock, charges
// the computed total, and on success persists the new order followed by the
// decremented product stock. Any failure before the final persistence steps
// leaves the store untouched; the mutated in-memory snapshot is simply
// discarded.
func (c *Checkout) PlaceOrder(username string, items []ItemRequest, shipAddress string) (store.Record, PaymentResult, error) {
	if len(items) == 0 {
		return nil, PaymentResult{}, &InvalidOrderError{Reason: "Items array is required and cannot be empty"}
	}
	if shipAddress == "" {
		return nil, PaymentResult{}, &InvalidOrderError{Reason: "Shipping address is required"}
	}

	products, err := c.store.GetCollection(store.Products)
	if err != nil {
		return nil, PaymentResult{}, err
	}

	orderItems := make([]store.Record, 0, len(items))
	var total float64
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, PaymentResult{}, &InvalidOrderError{
				Reason:    "Each item must have product_id and positive quantity",
				ProductID: item.ProductID,
			}
		}
		product := findProduct(products, item.ProductID)
		if product == nil {
			return nil, PaymentResult{}, &InvalidOrderError{
				Reason:    fmt.Sprintf("Product %s not found", item.ProductID),
				ProductID: item.ProductID,
			}
		}
		onHand := intField(product, "on_hand")
		if onHand < item.Quantity {
			return nil, PaymentResult{}, &InsufficientStockError{
				Product:   stringField(product, "name"),
				Available: onHand,
				Requested: item.Quantity,
			}
		}

		price := floatField(product, "price")
		total += price * float64(item.Quantity)
		orderItems = append(orderItems, store.Record{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"price":      price,
		})
		// Decrement the snapshot so a later item for the same product is
		// checked against the remaining stock.
		product["on_hand"] = onHand - item.Quantity
	}

	payment := c.pay(total)
	if !payment.Success {
		return nil, payment, &PaymentDeclinedError{Reason: payment.Error}
	}

	order := store.Record{
		"username":     username,
		"order_date":   c.now().UTC().Format(time.RFC3339),
		"ship_address": shipAddress,
		"items":        orderItems,
		"total_amount": total,
		"payment_id":   payment.PaymentID,
	}
	created, err := c.store.Insert(store.Orders, order)
	if err != nil {
		return nil, payment, err
	}
	if err := c.store.ReplaceCollection(store.Products, products); err != nil {
		return nil, payment, err
	}
	return created, payment, nil
}

func findProduct(products []store.Record, id string) store.Record {
	for _, p := range products {
		if p["id"] == id {
			return p
		}
	}
	return nil
}

// Numeric fields decode as float64 after a JSON round-trip but may still be
// ints when seeded in memory.
func floatField(r store.Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intField(r store.Record, key string) int {
	return int(floatField(r, key))
}

func stringField(r store.Record, key string) string {
	v, _ := r[key].(string)
	return v
}
