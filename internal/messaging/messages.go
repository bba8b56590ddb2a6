package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/tasks"
)

type Message struct {
	ID               string    `json:"id"`
	ConversationID   string    `json:"conversation_id"`
	SenderID         string    `json:"sender_id"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverID       string    `json:"receiver_id"`
	ReceiverUsername string    `json:"receiver_username"`
	Message          string    `json:"message"`
	IsRead           bool      `json:"is_read"`
	Attachments      []string  `json:"attachments"`
	CreatedAt        time.Time `json:"created_at"`
}

const messageColumns = `id, conversation_id, sender_id, sender_username,
	receiver_id, receiver_username, message, is_read, attachments, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*Message, error) {
	m := new(Message)
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.SenderUsername,
		&m.ReceiverID, &m.ReceiverUsername, &m.Message, &m.IsRead,
		&m.Attachments, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.Attachments == nil {
		m.Attachments = []string{}
	}
	return m, nil
}

type sendMessageRequest struct {
	ReceiverID  string   `json:"receiver_id" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	Attachments []string `json:"attachments"`
}

// Send stores a message in the sender/receiver conversation. Usernames
// are denormalized onto the row so listing never joins users.
func Send(c echo.Context) error {
	senderID, _ := c.Get("user_id").(string)

	req := new(sendMessageRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing required fields",
			"message": "receiver_id and message are required",
		})
	}

	ctx := context.Background()

	var senderUsername string
	if err := db.Conn.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, senderID).Scan(&senderUsername); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "The sender does not exist"})
	}
	var receiverUsername, receiverEmail string
	if err := db.Conn.QueryRow(ctx, `SELECT username, email FROM users WHERE id = $1`, req.ReceiverID).Scan(&receiverUsername, &receiverEmail); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "The recipient does not exist"})
	}

	if req.Attachments == nil {
		req.Attachments = []string{}
	}
	attachments, _ := json.Marshal(req.Attachments)

	m := &Message{
		ID:               uuid.New().String(),
		ConversationID:   ConversationID(senderID, req.ReceiverID),
		SenderID:         senderID,
		SenderUsername:   senderUsername,
		ReceiverID:       req.ReceiverID,
		ReceiverUsername: receiverUsername,
		Message:          req.Message,
		Attachments:      req.Attachments,
	}

	err := db.Conn.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, sender_username,
			receiver_id, receiver_username, message, attachments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		m.ID, m.ConversationID, m.SenderID, m.SenderUsername,
		m.ReceiverID, m.ReceiverUsername, m.Message, string(attachments),
	).Scan(&m.CreatedAt)
	if err != nil {
		c.Logger().Errorf("send message: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to send message"})
	}

	if err := tasks.EnqueueMessageNew(receiverEmail, receiverUsername, senderUsername); err != nil {
		c.Logger().Warnf("enqueue message alert: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Message sent successfully",
		"data":         m,
		"conversation": m.ConversationID,
	})
}

// GetConversation returns a conversation's messages oldest first and
// marks the caller's incoming messages as read.
func GetConversation(c echo.Context) error {
	conversationID := c.Param("conversationId")
	userID, _ := c.Get("user_id").(string)

	ctx := context.Background()

	rows, err := db.Conn.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = $1 ORDER BY created_at`, conversationID)
	if err != nil {
		c.Logger().Errorf("get conversation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get messages"})
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			c.Logger().Errorf("scan message: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get messages"})
		}
		messages = append(messages, m)
	}
	rows.Close()

	if _, err := db.Conn.Exec(ctx,
		`UPDATE messages SET is_read = TRUE
		 WHERE conversation_id = $1 AND receiver_id = $2 AND NOT is_read`,
		conversationID, userID); err != nil {
		c.Logger().Errorf("mark read: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "messages": messages})
}

// UnreadCount returns the caller's total unread messages.
func UnreadCount(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)

	var count int64
	err := db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, userID,
	).Scan(&count)
	if err != nil {
		c.Logger().Errorf("unread count: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get unread count"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "unread_count": count})
}

// MarkRead marks every incoming message in a conversation as read.
func MarkRead(c echo.Context) error {
	conversationID := c.Param("conversationId")
	userID, _ := c.Get("user_id").(string)

	if _, err := db.Conn.Exec(context.Background(),
		`UPDATE messages SET is_read = TRUE
		 WHERE conversation_id = $1 AND receiver_id = $2 AND NOT is_read`,
		conversationID, userID); err != nil {
		c.Logger().Errorf("mark read: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to mark messages as read"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Messages marked as read"})
}
