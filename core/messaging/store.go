package messaging

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const (
	conversationColumns = `conversation_id, live_class_id, student_id, teacher_id, created_at`
	messageColumns      = `message_id, conversation_id, sender_id, content, is_read, created_at`
)

// CreateConversation inserts c unless the student already talks to the
// class instructor.
func CreateConversation(ctx context.Context, db sqlx.ExtContext, c Conversation) (bool, error) {
	const q = `
	INSERT INTO conversations (conversation_id, live_class_id, student_id, teacher_id, created_at)
	VALUES (:conversation_id, :live_class_id, :student_id, :teacher_id, :created_at)
	ON CONFLICT (live_class_id, student_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, c)
	if err != nil {
		return false, fmt.Errorf("inserting conversation: %w", err)
	}
	return n == 1, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Conversation, error) {
	q := `SELECT ` + conversationColumns + ` FROM conversations WHERE conversation_id = :conversation_id`

	var c Conversation
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"conversation_id": id}, &c); err != nil {
		return Conversation{}, fmt.Errorf("selecting conversation[%s]: %w", id, err)
	}
	return c, nil
}

func FetchByClassStudent(ctx context.Context, db sqlx.ExtContext, classID, studentID string) (Conversation, error) {
	q := `SELECT ` + conversationColumns + ` FROM conversations WHERE live_class_id = :live_class_id AND student_id = :student_id`

	data := map[string]any{"live_class_id": classID, "student_id": studentID}

	var c Conversation
	if err := database.NamedQueryStruct(ctx, db, q, data, &c); err != nil {
		return Conversation{}, fmt.Errorf("selecting conversation of student[%s] in live class[%s]: %w", studentID, classID, err)
	}
	return c, nil
}

// QueryInbox lists the conversations userID takes part in, most recently
// active first.
func QueryInbox(ctx context.Context, db sqlx.ExtContext, userID string) ([]InboxEntry, error) {
	const q = `
	SELECT c.conversation_id, c.live_class_id, c.student_id, c.teacher_id, c.created_at, l.title,
		(SELECT COUNT(*) FROM messages m
			WHERE m.conversation_id = c.conversation_id AND m.sender_id <> :user_id AND m.is_read = FALSE) AS unread
	FROM conversations c JOIN live_classes l ON l.live_class_id = c.live_class_id
	WHERE c.student_id = :user_id OR c.teacher_id = :user_id
	ORDER BY COALESCE((SELECT MAX(m.created_at) FROM messages m WHERE m.conversation_id = c.conversation_id), c.created_at) DESC`

	var ee []InboxEntry
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"user_id": userID}, &ee); err != nil {
		return nil, fmt.Errorf("selecting inbox of user[%s]: %w", userID, err)
	}
	return ee, nil
}

func CreateMessage(ctx context.Context, db sqlx.ExtContext, m Message) error {
	const q = `
	INSERT INTO messages (message_id, conversation_id, sender_id, content, is_read, created_at)
	VALUES (:message_id, :conversation_id, :sender_id, :content, :is_read, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, m); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func QueryMessages(ctx context.Context, db sqlx.ExtContext, conversationID string) ([]Message, error) {
	q := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = :conversation_id ORDER BY created_at`

	var mm []Message
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"conversation_id": conversationID}, &mm); err != nil {
		return nil, fmt.Errorf("selecting messages of conversation[%s]: %w", conversationID, err)
	}
	return mm, nil
}

// MarkRead marks as read what the other participant sent to readerID.
func MarkRead(ctx context.Context, db sqlx.ExtContext, conversationID, readerID string) (int64, error) {
	const q = `
	UPDATE messages SET is_read = TRUE
	WHERE conversation_id = :conversation_id AND sender_id <> :reader_id AND is_read = FALSE`

	data := map[string]any{"conversation_id": conversationID, "reader_id": readerID}

	n, err := database.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return 0, fmt.Errorf("marking conversation[%s] as read: %w", conversationID, err)
	}
	return n, nil
}
