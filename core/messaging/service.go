package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

// Start returns the conversation between studentID and the instructor of
// c, creating it on first contact.
func Start(ctx context.Context, db sqlx.ExtContext, c live.Class, studentID string, now time.Time) (Conversation, bool, error) {
	conv := Conversation{
		ID:          validate.GenerateID(),
		LiveClassID: c.ID,
		StudentID:   studentID,
		TeacherID:   c.InstructorID,
		CreatedAt:   now,
	}

	created, err := CreateConversation(ctx, db, conv)
	if err != nil {
		return Conversation{}, false, err
	}
	if created {
		return conv, true, nil
	}

	existing, err := FetchByClassStudent(ctx, db, c.ID, studentID)
	if err != nil {
		return Conversation{}, false, err
	}
	return existing, false, nil
}

// Send appends a message to conv. When the student writes for the first
// time the live enrollment is stamped; first is true only for that call.
func Send(ctx context.Context, db *sqlx.DB, conv Conversation, senderID, content string, now time.Time) (msg Message, first bool, err error) {
	msg = Message{
		ID:             validate.GenerateID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
	}

	err = database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if err := CreateMessage(ctx, tx, msg); err != nil {
			return err
		}

		if senderID != conv.StudentID {
			return nil
		}

		first, err = enrollment.StampFirstMessage(ctx, tx, conv.StudentID, conv.LiveClassID, now)
		return err
	})
	if err != nil {
		return Message{}, false, fmt.Errorf("sending message in conversation[%s]: %w", conv.ID, err)
	}

	return msg, first, nil
}
