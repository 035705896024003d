package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatchsite/internal/domain/account"
	"dispatchsite/internal/domain/content"
)

type mockContentStore struct {
	doc        content.Document
	getErr     error
	replaceErr error
	replaced   int
}

func (m *mockContentStore) Get(_ context.Context) (content.Document, error) {
	if m.getErr != nil {
		return content.Document{}, m.getErr
	}
	return m.doc, nil
}

func (m *mockContentStore) Replace(_ context.Context, doc content.Document) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.doc = doc
	m.replaced++
	return nil
}

func (m *mockContentStore) Exists(_ context.Context) (bool, error) {
	return m.replaced > 0, nil
}

func TestExecuteUpdateContent_AdminMerge(t *testing.T) {
	store := &mockContentStore{doc: content.DefaultDocument(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
	hero := content.Hero{Title: "New Title", Subtitle: "New Sub"}

	got, err := ExecuteUpdateContent(context.Background(), UpdateContentInput{
		Update: content.Update{Hero: &hero},
		Role:   account.RoleAdmin,
	}, UpdateContentDeps{ContentStore: store})
	if err != nil {
		t.Fatalf("ExecuteUpdateContent failed: %v", err)
	}
	if got.Hero.Title != "New Title" {
		t.Errorf("hero = %+v", got.Hero)
	}
	if store.doc.Hero.Title != "New Title" {
		t.Error("merged document was not persisted")
	}
	if !got.UpdatedAt.After(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("UpdatedAt should advance on update")
	}
}

// TestExecuteUpdateContent_InvalidTopsNotPersisted verifies a rejected merge
// never reaches the store.
func TestExecuteUpdateContent_InvalidTopsNotPersisted(t *testing.T) {
	store := &mockContentStore{doc: content.DefaultDocument(time.Now())}
	shortTops := []content.TopEntry{{Name: "only one"}}

	_, err := ExecuteUpdateContent(context.Background(), UpdateContentInput{
		Update: content.Update{Tops: &shortTops},
		Role:   account.RoleAdmin,
	}, UpdateContentDeps{ContentStore: store})
	if !errors.Is(err, content.ErrInvalidTops) {
		t.Fatalf("error = %v, want ErrInvalidTops", err)
	}
	if store.replaced != 0 {
		t.Error("rejected update must not be persisted")
	}
}

func TestExecuteUpdateContent_CorruptStore(t *testing.T) {
	store := &mockContentStore{getErr: content.ErrCorruptDocument}

	_, err := ExecuteUpdateContent(context.Background(), UpdateContentInput{
		Update: content.Update{},
		Role:   account.RoleAdmin,
	}, UpdateContentDeps{ContentStore: store})
	if !errors.Is(err, content.ErrCorruptDocument) {
		t.Errorf("error = %v, want wrapped ErrCorruptDocument", err)
	}
}
