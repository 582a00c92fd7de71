package template

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/instrument"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu     sync.Mutex
	nextID int64
	store  map[int64]*domain.Template
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[int64]*domain.Template)}
}

func (m *mockRepo) Create(_ context.Context, t *domain.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*domain.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) SetArchiveKey(_ context.Context, id int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	t.ArchiveKey = key
	return nil
}

type fakeArchiver struct {
	got []domain.Template
	err error
}

func (f *fakeArchiver) Archive(_ context.Context, t domain.Template) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = append(f.got, t)
	return "templates/key.html", nil
}

func clickTracking() instrument.TrackingConfig {
	return instrument.TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/c"}
}

func TestSubmit_StoresInstrumentedContent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	tpl, err := svc.Submit(context.Background(), SubmitRequest{
		Name:     "Welcome",
		Draft:    instrument.EmailDraft{Subject: "Hi", BodyHTML: `<a href="https://x.com/a">A</a>`},
		Tracking: clickTracking(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tpl.ID == 0 || tpl.Version != 1 {
		t.Errorf("id=%d version=%d", tpl.ID, tpl.Version)
	}
	if tpl.Type != "click" {
		t.Errorf("type = %q, want click", tpl.Type)
	}
	stored := repo.store[tpl.ID].Content
	if !strings.Contains(stored, "https://t.example/c?url=https%3A%2F%2Fx.com%2Fa") || !strings.Contains(stored, "recipient={{email}}") {
		t.Errorf("stored content not instrumented: %s", stored)
	}
}

func TestSubmit_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)
	_, err := svc.Submit(context.Background(), SubmitRequest{Draft: instrument.EmailDraft{BodyHTML: "<p>x</p>"}})
	if !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
}

func TestSubmit_RejectsEmptyContent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)
	_, err := svc.Submit(context.Background(), SubmitRequest{Name: "Empty", Draft: instrument.EmailDraft{BodyHTML: "   "}})
	if !errors.Is(err, instrument.ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
	if len(repo.store) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestSubmit_RevisionBumpsVersion(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitRequest{Name: "News", Draft: instrument.EmailDraft{BodyHTML: "<p>v1</p>"}})
	if err != nil {
		t.Fatalf("Submit v1: %v", err)
	}
	second, err := svc.Submit(ctx, SubmitRequest{Name: "News", ParentID: &first.ID, Draft: instrument.EmailDraft{BodyHTML: "<p>v2</p>"}})
	if err != nil {
		t.Fatalf("Submit v2: %v", err)
	}
	if second.Version != 2 || *second.ParentID != first.ID {
		t.Errorf("version=%d parent=%v", second.Version, second.ParentID)
	}
}

func TestSubmit_UnknownParent(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)
	missing := int64(77)
	_, err := svc.Submit(context.Background(), SubmitRequest{Name: "x", ParentID: &missing, Draft: instrument.EmailDraft{BodyHTML: "<p>x</p>"}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmit_Archives(t *testing.T) {
	repo := newMockRepo()
	arch := &fakeArchiver{}
	svc := NewService(repo, nil, arch)

	tpl, err := svc.Submit(context.Background(), SubmitRequest{Name: "A", Draft: instrument.EmailDraft{BodyHTML: "<p>x</p>"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(arch.got) != 1 || arch.got[0].ID != tpl.ID {
		t.Fatalf("archiver calls = %+v", arch.got)
	}
	if tpl.ArchiveKey != "templates/key.html" || repo.store[tpl.ID].ArchiveKey != tpl.ArchiveKey {
		t.Errorf("archive key not recorded: %q", tpl.ArchiveKey)
	}
}

func TestSubmit_ArchiveFailureStillSaves(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, &fakeArchiver{err: errors.New("s3 unavailable")})

	tpl, err := svc.Submit(context.Background(), SubmitRequest{Name: "A", Draft: instrument.EmailDraft{BodyHTML: "<p>x</p>"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tpl.ArchiveKey != "" {
		t.Errorf("unexpected archive key %q", tpl.ArchiveKey)
	}
	if _, ok := repo.store[tpl.ID]; !ok {
		t.Error("template should be saved")
	}
}
