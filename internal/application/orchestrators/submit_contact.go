package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dispatchsite/internal/adapters/email"
	"dispatchsite/internal/domain/message"
)

// MessageStoreForSubmit defines the store interface needed by SubmitContact.
type MessageStoreForSubmit interface {
	Append(ctx context.Context, m message.Message) error
}

// AttachmentStore defines the upload-processor interface needed by SubmitContact.
type AttachmentStore interface {
	StoreAttachment(originalName string, src io.Reader) (string, error)
	ReadStored(relPath string) ([]byte, error)
}

// SubmitContactInput carries one contact-form submission.
// Attachment is nil when no file was uploaded.
type SubmitContactInput struct {
	FullName       string
	Email          string
	Phone          string
	Message        string
	AttachmentName string
	Attachment     io.Reader
}

// SubmitContactDeps holds dependencies for SubmitContact.
// Sender may be nil or NotifyTo empty, in which case no notification goes out.
type SubmitContactDeps struct {
	MessageStore MessageStoreForSubmit
	Uploads      AttachmentStore
	Sender       email.Sender
	NotifyTo     string
	From         string
	ReplyTo      string
}

// mdRenderer converts the visitor's message to HTML for the notification
// email. Raw HTML in the input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// ExecuteSubmitContact stores a contact submission and notifies the site
// owner. The message log append is the source of truth: once it succeeds the
// submission is accepted, and a notification failure is logged but never
// surfaced to the visitor.
// POST: Message appended with server-side ID and CreatedAt
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) error {
	var attachmentRel string
	if input.Attachment != nil {
		rel, err := deps.Uploads.StoreAttachment(input.AttachmentName, input.Attachment)
		if err != nil {
			return fmt.Errorf("store attachment: %w", err)
		}
		attachmentRel = rel
	}

	m := message.Message{
		ID:         uuid.New().String(),
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
		Attachment: attachmentRel,
		CreatedAt:  time.Now(),
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := deps.MessageStore.Append(ctx, m); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	notifyContact(ctx, deps, m, input.AttachmentName)
	return nil
}

// notifyContact sends the best-effort owner notification. Failures are
// logged and swallowed.
func notifyContact(ctx context.Context, deps SubmitContactDeps, m message.Message, attachmentName string) {
	if deps.Sender == nil || deps.NotifyTo == "" {
		return
	}

	name := m.FullName
	if name == "" {
		name = "(no name)"
	}

	req := email.SendRequest{
		To:      []string{deps.NotifyTo},
		From:    deps.From,
		ReplyTo: deps.ReplyTo,
		Subject: "New Driver Application - " + name,
		HTML:    notificationHTML(m),
		Text: fmt.Sprintf("New application:\nFull Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s",
			m.FullName, m.Email, m.Phone, m.Message),
	}
	if m.Attachment != "" {
		data, err := deps.Uploads.ReadStored(m.Attachment)
		if err != nil {
			slog.Error("contact_notify_failed", "error", err.Error(), "stage", "read_attachment")
		} else {
			req.Attachments = append(req.Attachments, email.Attachment{
				Filename: attachmentName,
				Content:  data,
			})
		}
	}

	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Error("contact_notify_failed", "error", err.Error(), "stage", "send")
	}
}

// notificationHTML renders the notification body. The message text goes
// through goldmark with HTML escaping; the header fields are escaped directly.
func notificationHTML(m message.Message) string {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(m.Message), &body); err != nil {
		body.Reset()
		body.WriteString("<p>" + template.HTMLEscapeString(m.Message) + "</p>")
	}
	return fmt.Sprintf(
		"<p><strong>Full Name:</strong> %s<br><strong>Email:</strong> %s<br><strong>Phone:</strong> %s</p><hr>%s",
		template.HTMLEscapeString(m.FullName),
		template.HTMLEscapeString(m.Email),
		template.HTMLEscapeString(m.Phone),
		body.String(),
	)
}
