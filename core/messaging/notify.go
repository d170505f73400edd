package messaging

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/email"
	"github.com/jmoiron/sqlx"
)

// Notifier tells the instructor that a student wrote for the first time.
type Notifier interface {
	FirstMessage(ctx context.Context, conv Conversation, msg Message) error
}

type MailNotifier struct {
	db       *sqlx.DB
	mailer   email.Mailer
	inboxURL string
}

func NewMailNotifier(db *sqlx.DB, mailer email.Mailer, inboxURL string) *MailNotifier {
	return &MailNotifier{db: db, mailer: mailer, inboxURL: inboxURL}
}

var firstMessageHTML = template.Must(template.New("first").Parse(
	`<p>Hi {{.Teacher}},</p>` +
		`<p>{{.Student}} sent you a message about <strong>{{.Class}}</strong>:</p>` +
		`<blockquote>{{.Content}}</blockquote>` +
		`<p><a href="{{.InboxURL}}">Open your inbox</a></p>`,
))

type firstMessageData struct {
	Teacher  string
	Student  string
	Class    string
	Content  string
	InboxURL string
}

func (n *MailNotifier) FirstMessage(ctx context.Context, conv Conversation, msg Message) error {
	teacher, err := user.Fetch(ctx, n.db, conv.TeacherID)
	if err != nil {
		return fmt.Errorf("fetching teacher: %w", err)
	}

	student, err := user.Fetch(ctx, n.db, conv.StudentID)
	if err != nil {
		return fmt.Errorf("fetching student: %w", err)
	}

	class, err := live.Fetch(ctx, n.db, conv.LiveClassID)
	if err != nil {
		return fmt.Errorf("fetching live class: %w", err)
	}

	m, err := firstMessageMail(teacher, student, class, msg, n.inboxURL)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, m)
}

func firstMessageMail(teacher, student user.User, class live.Class, msg Message, inboxURL string) (email.Message, error) {
	data := firstMessageData{
		Teacher:  teacher.Name,
		Student:  student.Name,
		Class:    class.Title,
		Content:  msg.Content,
		InboxURL: inboxURL,
	}

	var html strings.Builder
	if err := firstMessageHTML.Execute(&html, data); err != nil {
		return email.Message{}, fmt.Errorf("rendering notification: %w", err)
	}

	text := fmt.Sprintf("Hi %s,\n\n%s sent you a message about %s:\n\n%s\n\nOpen your inbox: %s\n",
		teacher.Name, student.Name, class.Title, msg.Content, inboxURL)

	return email.Message{
		ToName:    teacher.Name,
		ToAddress: teacher.Email,
		Subject:   fmt.Sprintf("New message from %s about %s", student.Name, class.Title),
		Text:      text,
		HTML:      html.String(),
	}, nil
}
