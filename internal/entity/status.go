package entity

import "fmt"

// Order statuses. The set is open: admins may write values outside this list
// and nothing enforces a transition graph.
const (
	StatusVerificationPending  = "verification_pending"
	StatusPaymentConfirmed     = "payment_confirmed"
	StatusProcessing           = "processing"
	StatusVerificationApproved = "verification_approved"
	StatusVerificationRejected = "verification_rejected"
	StatusShipped              = "shipped"
	StatusDelivered            = "delivered"
	StatusCancelled            = "cancelled"
)

const VerificationStatusPending = "pending"

var statusLabels = map[string]string{
	StatusPaymentConfirmed:     "✅ Payment confirmed",
	StatusProcessing:           "📦 Order is being packed",
	StatusVerificationPending:  "🎥 Awaiting video verification",
	StatusVerificationApproved: "✅ Verification approved",
	StatusVerificationRejected: "❌ Verification rejected",
	StatusShipped:              "🚚 Order has been shipped",
	StatusDelivered:            "🎉 Order delivered",
	StatusCancelled:            "❌ Order cancelled",
}

// StatusLabel maps a status to its customer-facing text. Unknown statuses are
// rendered literally so a new status never breaks notifications.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return fmt.Sprintf("Status: %s", status)
}
