package tasks

// Task type names routed through the queue.
const (
	TypePaymentComplete = "payment:complete"
	TypeWelcomeEmail    = "email:welcome"
	TypeMessageNew      = "email:message_new"
)

type paymentCompletePayload struct {
	PaymentID string `json:"payment_id"`
}

type welcomeEmailPayload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type messageNewPayload struct {
	ReceiverEmail    string `json:"receiver_email"`
	ReceiverUsername string `json:"receiver_username"`
	SenderUsername   string `json:"sender_username"`
}
