package orchestrators

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"dispatchsite/internal/adapters/email"
	"dispatchsite/internal/domain/message"
)

type mockMessageStore struct {
	appended []message.Message
	err      error
}

func (m *mockMessageStore) Append(_ context.Context, msg message.Message) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, msg)
	return nil
}

type mockAttachmentStore struct {
	stored map[string][]byte
}

func newMockAttachmentStore() *mockAttachmentStore {
	return &mockAttachmentStore{stored: make(map[string][]byte)}
}

func (m *mockAttachmentStore) StoreAttachment(originalName string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	rel := "/uploads/stored_" + originalName
	m.stored[rel] = data
	return rel, nil
}

func (m *mockAttachmentStore) ReadStored(relPath string) ([]byte, error) {
	data, ok := m.stored[relPath]
	if !ok {
		return nil, errors.New("no such attachment")
	}
	return data, nil
}

type mockSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1"}, nil
}

func TestExecuteSubmitContact_Success(t *testing.T) {
	store := &mockMessageStore{}
	sender := &mockSender{}
	deps := SubmitContactDeps{
		MessageStore: store,
		Uploads:      newMockAttachmentStore(),
		Sender:       sender,
		NotifyTo:     "owner@example.com",
		From:         "noreply@example.com",
	}

	err := ExecuteSubmitContact(context.Background(), SubmitContactInput{
		FullName: "Jane Driver",
		Email:    "jane@example.com",
		Phone:    "555-1234",
		Message:  "I'd like to apply.",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteSubmitContact failed: %v", err)
	}

	if len(store.appended) != 1 {
		t.Fatalf("appended %d messages, want 1", len(store.appended))
	}
	m := store.appended[0]
	if m.ID == "" {
		t.Error("ID must be assigned server-side")
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt must be assigned server-side")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(sender.sent))
	}
	req := sender.sent[0]
	if req.Subject != "New Driver Application - Jane Driver" {
		t.Errorf("subject = %q", req.Subject)
	}
	if len(req.To) != 1 || req.To[0] != "owner@example.com" {
		t.Errorf("to = %v", req.To)
	}
	if !strings.Contains(req.HTML, "Jane Driver") {
		t.Errorf("html body missing name: %q", req.HTML)
	}
}

// TestExecuteSubmitContact_NotifyFailureSwallowed verifies the submission
// succeeds even when the notification provider is down. The append is the
// source of truth.
func TestExecuteSubmitContact_NotifyFailureSwallowed(t *testing.T) {
	store := &mockMessageStore{}
	deps := SubmitContactDeps{
		MessageStore: store,
		Uploads:      newMockAttachmentStore(),
		Sender:       &mockSender{err: errors.New("provider down")},
		NotifyTo:     "owner@example.com",
	}

	err := ExecuteSubmitContact(context.Background(), SubmitContactInput{Message: "hello"}, deps)
	if err != nil {
		t.Fatalf("notification failure must not fail the submission: %v", err)
	}
	if len(store.appended) != 1 {
		t.Errorf("appended %d messages, want 1", len(store.appended))
	}
}

func TestExecuteSubmitContact_WithAttachment(t *testing.T) {
	store := &mockMessageStore{}
	uploads := newMockAttachmentStore()
	sender := &mockSender{}
	deps := SubmitContactDeps{
		MessageStore: store,
		Uploads:      uploads,
		Sender:       sender,
		NotifyTo:     "owner@example.com",
	}

	err := ExecuteSubmitContact(context.Background(), SubmitContactInput{
		FullName:       "Jane",
		Message:        "cv attached",
		AttachmentName: "cv.pdf",
		Attachment:     strings.NewReader("pdf bytes"),
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteSubmitContact failed: %v", err)
	}

	m := store.appended[0]
	if m.Attachment == "" {
		t.Fatal("message should reference the stored attachment")
	}
	if got := string(uploads.stored[m.Attachment]); got != "pdf bytes" {
		t.Errorf("stored attachment = %q", got)
	}
	if len(sender.sent) != 1 || len(sender.sent[0].Attachments) != 1 {
		t.Fatalf("notification should carry the attachment: %+v", sender.sent)
	}
	att := sender.sent[0].Attachments[0]
	if att.Filename != "cv.pdf" || string(att.Content) != "pdf bytes" {
		t.Errorf("attachment = %+v", att)
	}
}

// TestExecuteSubmitContact_Validation verifies empty and oversized messages
// are rejected before anything is stored.
func TestExecuteSubmitContact_Validation(t *testing.T) {
	store := &mockMessageStore{}
	deps := SubmitContactDeps{MessageStore: store, Uploads: newMockAttachmentStore()}
	ctx := context.Background()

	if err := ExecuteSubmitContact(ctx, SubmitContactInput{Message: ""}, deps); !errors.Is(err, message.ErrEmptyMessage) {
		t.Errorf("empty message error = %v", err)
	}
	long := strings.Repeat("x", message.MaxMessageLength+1)
	if err := ExecuteSubmitContact(ctx, SubmitContactInput{Message: long}, deps); !errors.Is(err, message.ErrMessageTooLong) {
		t.Errorf("long message error = %v", err)
	}
	if len(store.appended) != 0 {
		t.Errorf("rejected submissions must not be stored, got %d", len(store.appended))
	}
}

// TestExecuteSubmitContact_NoSenderConfigured verifies submissions work with
// no notification target at all.
func TestExecuteSubmitContact_NoSenderConfigured(t *testing.T) {
	store := &mockMessageStore{}
	deps := SubmitContactDeps{MessageStore: store, Uploads: newMockAttachmentStore()}

	if err := ExecuteSubmitContact(context.Background(), SubmitContactInput{Message: "hello"}, deps); err != nil {
		t.Fatalf("ExecuteSubmitContact failed: %v", err)
	}
	if len(store.appended) != 1 {
		t.Errorf("appended %d messages, want 1", len(store.appended))
	}
}
