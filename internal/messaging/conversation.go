package messaging

import (
	"context"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// ConversationID derives the shared conversation key for a user pair.
// The ids are sorted first, so both sides compute the same key.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

type conversationSummary struct {
	ConversationID string  `json:"conversation_id"`
	OtherUser      *person `json:"other_user"`
	LastMessage    Message `json:"last_message"`
	UnreadCount    int64   `json:"unread_count"`
}

type person struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ListConversations returns the caller's inbox: one entry per
// conversation with the latest message and an unread count, newest
// conversation first.
func ListConversations(c echo.Context) error {
	userID := c.Param("userId")
	if tokenUser, _ := c.Get("user_id").(string); tokenUser != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only view your own conversations"})
	}

	ctx := context.Background()

	rows, err := db.Conn.Query(ctx,
		`SELECT DISTINCT ON (conversation_id) `+messageColumns+`
		 FROM messages WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY conversation_id, created_at DESC`, userID)
	if err != nil {
		c.Logger().Errorf("list conversations: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get conversations"})
	}
	defer rows.Close()

	var lastMessages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			c.Logger().Errorf("scan message: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get conversations"})
		}
		lastMessages = append(lastMessages, m)
	}
	rows.Close()

	unread := map[string]int64{}
	urows, err := db.Conn.Query(ctx,
		`SELECT conversation_id, COUNT(*) FROM messages
		 WHERE receiver_id = $1 AND NOT is_read GROUP BY conversation_id`, userID)
	if err == nil {
		defer urows.Close()
		for urows.Next() {
			var id string
			var n int64
			if err := urows.Scan(&id, &n); err == nil {
				unread[id] = n
			}
		}
	}

	conversations := []conversationSummary{}
	for _, m := range lastMessages {
		otherID := m.SenderID
		if otherID == userID {
			otherID = m.ReceiverID
		}

		other := &person{ID: otherID}
		err := db.Conn.QueryRow(ctx,
			`SELECT username, COALESCE(profile->>'profile_picture', '') FROM users WHERE id = $1`,
			otherID,
		).Scan(&other.Username, &other.ProfilePicture)
		if err != nil {
			other.Username = "Unknown User"
		}

		conversations = append(conversations, conversationSummary{
			ConversationID: m.ConversationID,
			OtherUser:      other,
			LastMessage:    *m,
			UnreadCount:    unread[m.ConversationID],
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "conversations": conversations})
}

type startConversationRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
}

// StartConversation resolves the conversation key for the caller and a
// peer, creating nothing; conversations exist once a message is sent.
func StartConversation(c echo.Context) error {
	senderID, _ := c.Get("user_id").(string)

	req := new(startConversationRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing receiver", "message": "receiver_id is required"})
	}

	ctx := context.Background()

	other := &person{ID: req.ReceiverID}
	err := db.Conn.QueryRow(ctx,
		`SELECT username, COALESCE(profile->>'profile_picture', '') FROM users WHERE id = $1`,
		req.ReceiverID,
	).Scan(&other.Username, &other.ProfilePicture)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "The recipient does not exist"})
	}

	conversationID := ConversationID(senderID, req.ReceiverID)

	var exists bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE conversation_id = $1)`, conversationID,
	).Scan(&exists); err != nil {
		c.Logger().Errorf("start conversation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to start conversation"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"conversation_id": conversationID,
		"exists":          exists,
		"other_user":      other,
	})
}
