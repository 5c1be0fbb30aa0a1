package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	"picren/internal/config"
	"picren/internal/domain"
)

// memStore is an in-memory Storage without the rename capability, so the
// executor has to take the write-then-remove path.
type memStore struct {
	files      map[string][]byte
	ops        []string
	failWrite  map[string]bool
	failRemove map[string]bool
}

func newMemStore(files map[string][]byte) *memStore {
	if files == nil {
		files = map[string][]byte{}
	}
	return &memStore{
		files:      files,
		failWrite:  map[string]bool{},
		failRemove: map[string]bool{},
	}
}

func (s *memStore) List(ctx context.Context) ([]fs.FileInfo, error) {
	s.ops = append(s.ops, "list")
	return nil, nil
}

func (s *memStore) Read(ctx context.Context, name string) ([]byte, error) {
	s.ops = append(s.ops, "read "+name)
	data, ok := s.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (s *memStore) Write(ctx context.Context, name string, data []byte) error {
	s.ops = append(s.ops, "write "+name)
	if s.failWrite[name] {
		return errors.New("disk full")
	}
	s.files[name] = data
	return nil
}

func (s *memStore) Remove(ctx context.Context, name string) error {
	s.ops = append(s.ops, "remove "+name)
	if s.failRemove[name] {
		return errors.New("remove denied")
	}
	delete(s.files, name)
	return nil
}

// renameStore adds the fast-path capability on top of memStore.
type renameStore struct {
	*memStore
}

func (s renameStore) Rename(ctx context.Context, oldName, newName string) error {
	s.memStore.ops = append(s.memStore.ops, "rename "+oldName+" "+newName)
	data, ok := s.files[oldName]
	if !ok {
		return fs.ErrNotExist
	}
	delete(s.files, oldName)
	s.files[newName] = data
	return nil
}

// stubResizer reports a fixed source width and returns canned output.
type stubResizer struct {
	width       int
	out         []byte
	err         error
	resizeCalls int
}

func (r *stubResizer) SourceWidth(data []byte) (int, error) {
	return r.width, nil
}

func (r *stubResizer) ShouldResize(sourceWidth, targetWidth int) bool {
	return sourceWidth > targetWidth
}

func (r *stubResizer) Resize(data []byte, mimeType string, targetWidth, quality int) ([]byte, error) {
	r.resizeCalls++
	if r.err != nil {
		return nil, r.err
	}
	return r.out, nil
}

func plannedFor(store *memStore, pairs ...[2]string) *domain.RenamePlan {
	plan := &domain.RenamePlan{}
	for _, pair := range pairs {
		oldName, newName := pair[0], pair[1]
		ext := oldName[strings.LastIndex(oldName, "."):]
		plan.Entries = append(plan.Entries, domain.PlannedEntry{
			Entry: domain.Entry{
				ID:           oldName,
				OriginalName: strings.TrimSuffix(oldName, ext),
				Ext:          ext,
				Path:         oldName,
				LastModified: time.Now(),
			},
			NewName: newName,
			Status:  domain.StatusPending,
		})
		if store != nil {
			if _, ok := store.files[oldName]; !ok {
				store.files[oldName] = []byte("content of " + oldName)
			}
		}
	}
	return plan
}

func TestExecuteNoOpWhenNameUnchanged(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "a"})

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.ops) != 0 {
		t.Fatalf("expected zero storage calls, got %v", store.ops)
	}
	if plan.Entries[0].Status != domain.StatusSuccess {
		t.Fatalf("status = %v, want success", plan.Entries[0].Status)
	}
}

func TestExecuteWritesBeforeRemoving(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "b"})

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"read a.jpg", "write b.jpg", "remove a.jpg"}
	if len(store.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", store.ops, want)
	}
	for i := range want {
		if store.ops[i] != want[i] {
			t.Fatalf("op %d = %q, want %q", i, store.ops[i], want[i])
		}
	}
	if plan.Entries[0].Status != domain.StatusSuccess {
		t.Fatalf("status = %v, want success", plan.Entries[0].Status)
	}
}

func TestExecuteRemoveFailureKeepsNewContent(t *testing.T) {
	store := newMemStore(nil)
	store.failRemove["a.jpg"] = true
	plan := plannedFor(store, [2]string{"a.jpg", "b"})

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := plan.Entries[0]
	if entry.Status != domain.StatusError {
		t.Fatalf("status = %v, want error", entry.Status)
	}
	if !strings.Contains(entry.ErrorMessage, "original remains") {
		t.Fatalf("message %q does not name the stale original", entry.ErrorMessage)
	}
	if _, ok := store.files["b.jpg"]; !ok {
		t.Fatalf("new content must survive a failed removal")
	}
	if _, ok := store.files["a.jpg"]; !ok {
		t.Fatalf("original should still be present after failed removal")
	}
}

func TestExecuteContinuesPastFailures(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store,
		[2]string{"p1.jpg", "q1"},
		[2]string{"p2.jpg", "q2"},
		[2]string{"p3.jpg", "q3"},
		[2]string{"p4.jpg", "q4"},
		[2]string{"p5.jpg", "q5"},
	)
	store.failWrite["q3.jpg"] = true

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, entry := range plan.Entries {
		want := domain.StatusSuccess
		if i == 2 {
			want = domain.StatusError
		}
		if entry.Status != want {
			t.Fatalf("entry %d status = %v, want %v", i, entry.Status, want)
		}
	}
}

func TestExecuteDryRunTouchesNothing(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "b"})

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{DryRun: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.ops) != 0 {
		t.Fatalf("dry run performed storage calls: %v", store.ops)
	}
	if plan.Entries[0].Status != domain.StatusPending {
		t.Fatalf("dry run must not alter statuses, got %v", plan.Entries[0].Status)
	}
}

func TestExecuteSkipsPlanningErrors(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "b"}, [2]string{"c.jpg", "b"})
	plan.Entries[1].Status = domain.StatusError
	plan.Entries[1].ErrorMessage = "target name taken"

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Entries[1].Status != domain.StatusError || plan.Entries[1].ErrorMessage != "target name taken" {
		t.Fatalf("planning error was touched: %+v", plan.Entries[1])
	}
	for _, op := range store.ops {
		if strings.Contains(op, "c.jpg") {
			t.Fatalf("conflicting entry was attempted: %v", store.ops)
		}
	}
}

func TestExecuteUsesRenameFastPath(t *testing.T) {
	inner := newMemStore(nil)
	plan := plannedFor(inner, [2]string{"a.jpg", "b"})
	store := renameStore{memStore: inner}

	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(inner.ops) != 1 || inner.ops[0] != "rename a.jpg b.jpg" {
		t.Fatalf("expected a single rename, got %v", inner.ops)
	}
	if _, ok := inner.files["b.jpg"]; !ok {
		t.Fatalf("rename did not move the file")
	}
}

func TestExecuteFastPathDisabledByKeepOriginals(t *testing.T) {
	inner := newMemStore(nil)
	plan := plannedFor(inner, [2]string{"a.jpg", "b"})
	store := renameStore{memStore: inner}

	cfg := config.RenameConfig{KeepOriginals: true}
	executor := Executor{Store: store}
	if err := executor.Execute(context.Background(), plan, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, op := range inner.ops {
		if strings.HasPrefix(op, "rename") {
			t.Fatalf("keep-originals must not use the rename fast path: %v", inner.ops)
		}
	}
	if _, ok := inner.files["a.jpg"]; !ok {
		t.Fatalf("original should be kept")
	}
	if _, ok := inner.files["b.jpg"]; !ok {
		t.Fatalf("copy should exist")
	}
}

func TestExecuteSkipsResizeForSmallSources(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "b"})
	resizer := &stubResizer{width: 1000}

	cfg := config.RenameConfig{EnableResize: true, ResizeWidth: 1920, ResizeQuality: 80}
	executor := Executor{Store: store, Resizer: resizer}
	if err := executor.Execute(context.Background(), plan, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resizer.resizeCalls != 0 {
		t.Fatalf("resize must not run for sources narrower than the target")
	}
	if string(store.files["b.jpg"]) != "content of a.jpg" {
		t.Fatalf("bytes must pass through unchanged")
	}
}

func TestExecuteResizeWithKeepOriginals(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "b"})
	resizer := &stubResizer{width: 4000, out: []byte("small")}

	cfg := config.RenameConfig{
		EnableResize:  true,
		ResizeWidth:   1920,
		ResizeQuality: 80,
		KeepOriginals: true,
	}
	executor := Executor{Store: store, Resizer: resizer}
	if err := executor.Execute(context.Background(), plan, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resizer.resizeCalls != 1 {
		t.Fatalf("resize calls = %d, want 1", resizer.resizeCalls)
	}
	if string(store.files["b_resized.jpg"]) != "small" {
		t.Fatalf("transformed output missing, files: %v", keys(store.files))
	}
	if _, ok := store.files["a.jpg"]; !ok {
		t.Fatalf("original must be kept")
	}
}

func TestExecuteCancellationSkipsRemainder(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "x"}, [2]string{"b.jpg", "y"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := Executor{Store: store}
	err := executor.Execute(ctx, plan, config.RenameConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for i, entry := range plan.Entries {
		if entry.Status != domain.StatusSkipped {
			t.Fatalf("entry %d status = %v, want skipped", i, entry.Status)
		}
	}
}

func TestExecuteReportsProgressPerEntry(t *testing.T) {
	store := newMemStore(nil)
	plan := plannedFor(store, [2]string{"a.jpg", "x"}, [2]string{"b.jpg", "y"}, [2]string{"c.jpg", "z"})

	var calls []string
	executor := Executor{
		Store: store,
		OnProgress: func(current, total int) {
			calls = append(calls, fmt.Sprintf("%d/%d", current, total))
		},
	}
	if err := executor.Execute(context.Background(), plan, config.RenameConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1/3", "2/3", "3/3"}
	if len(calls) != len(want) {
		t.Fatalf("progress calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
