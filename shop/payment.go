package shop

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// PaymentResult is the outcome reported by a payment gateway.
type PaymentResult struct {
	Success   bool    `json:"success"`
	PaymentID string  `json:"payment_id,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	Status    string  `json:"status,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// PaymentFunc charges the given amount. The checkout workflow depends only
// on this contract, so a real gateway can be plugged in without touching it.
type PaymentFunc func(amount float64) PaymentResult

// SimulatePayment is the default PaymentFunc. It approves 95% of charges and
// declines the rest; the variance is deliberate, not a transient failure to
// retry.
func SimulatePayment(amount float64) PaymentResult {
	if rand.Float64() < 0.05 {
		return PaymentResult{
			Success: false,
			Error:   "Payment declined - insufficient funds",
		}
	}
	return PaymentResult{
		Success:   true,
		PaymentID: "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9],
		Amount:    amount,
		Status:    "completed",
	}
}
