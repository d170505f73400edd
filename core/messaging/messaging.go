// Package messaging lets enrolled students talk to the instructor of a
// live class. A student's first message opens the class for review.
package messaging

import "time"

type Conversation struct {
	ID          string    `json:"id" db:"conversation_id"`
	LiveClassID string    `json:"liveClassId" db:"live_class_id"`
	StudentID   string    `json:"studentId" db:"student_id"`
	TeacherID   string    `json:"teacherId" db:"teacher_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.StudentID || userID == c.TeacherID)
}

type Message struct {
	ID             string    `json:"id" db:"message_id"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	SenderID       string    `json:"senderId" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	IsRead         bool      `json:"isRead" db:"is_read"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type MessageNew struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type InboxEntry struct {
	Conversation
	ClassTitle string `json:"classTitle" db:"title"`
	Unread     int    `json:"unread" db:"unread"`
}

type Thread struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}
