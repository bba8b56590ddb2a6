package tasks

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// Init connects the queue client and starts the background worker.
func Init(redisAddr string) {
	redis := asynq.RedisClientOpt{Addr: redisAddr}

	client = asynq.NewClient(redis)

	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 5,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentComplete, handlePaymentCompletion)
	mux.HandleFunc(TypeWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TypeMessageNew, handleMessageNew)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Printf("task worker stopped: %v", err)
		}
	}()
}

// handlePaymentCompletion settles a pending payment. Already-settled
// payments are a no-op, so retries are harmless.
func handlePaymentCompletion(ctx context.Context, t *asynq.Task) error {
	var p paymentCompletePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}

	_, err := db.Conn.Exec(ctx,
		`UPDATE payments SET status = 'completed', updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`, p.PaymentID)
	return err
}

func handleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var p welcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}

	subject := "Welcome to GigMarket"
	body := "Hi " + p.Username + ",\n\nYour account is ready. Browse gigs, message freelancers and place your first order.\n\nThe GigMarket Team"
	return sendMail(p.Email, subject, body)
}

func handleMessageNew(ctx context.Context, t *asynq.Task) error {
	var p messageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}

	subject := "New message from " + p.SenderUsername
	body := "Hi " + p.ReceiverUsername + ",\n\n" + p.SenderUsername + " sent you a new message. Log in to reply.\n\nThe GigMarket Team"
	return sendMail(p.ReceiverEmail, subject, body)
}
