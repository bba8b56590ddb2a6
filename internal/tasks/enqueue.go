package tasks

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

var client *asynq.Client

var errNotStarted = errors.New("task queue not started")

func enqueue(task *asynq.Task, opts ...asynq.Option) error {
	if client == nil {
		return errNotStarted
	}
	_, err := client.Enqueue(task, opts...)
	return err
}

// EnqueuePaymentCompletion schedules the settlement of a pending payment
// after the given delay.
func EnqueuePaymentCompletion(paymentID string, delay time.Duration) error {
	payload, err := json.Marshal(paymentCompletePayload{PaymentID: paymentID})
	if err != nil {
		return err
	}
	return enqueue(asynq.NewTask(TypePaymentComplete, payload), asynq.ProcessIn(delay), asynq.MaxRetry(5))
}

// EnqueueWelcomeEmail queues the onboarding email for a fresh signup.
func EnqueueWelcomeEmail(userID, email, username string) error {
	payload, err := json.Marshal(welcomeEmailPayload{UserID: userID, Email: email, Username: username})
	if err != nil {
		return err
	}
	return enqueue(asynq.NewTask(TypeWelcomeEmail, payload), asynq.MaxRetry(3))
}

// EnqueueMessageNew queues a new-message notification for the recipient.
func EnqueueMessageNew(receiverEmail, receiverUsername, senderUsername string) error {
	payload, err := json.Marshal(messageNewPayload{
		ReceiverEmail:    receiverEmail,
		ReceiverUsername: receiverUsername,
		SenderUsername:   senderUsername,
	})
	if err != nil {
		return err
	}
	return enqueue(asynq.NewTask(TypeMessageNew, payload), asynq.MaxRetry(3))
}
