package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/orderdex/internal/domain"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// --- Mocks ---

type mockRepo struct {
	listResult []domrun.Run
	getResult  domrun.Snapshot
	latestID   string
	listErr    error
	getErr     error
	latestErr  error
}

func (m *mockRepo) List(_ context.Context) ([]domrun.Run, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domrun.Snapshot, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) LatestID(_ context.Context) (string, error) {
	return m.latestID, m.latestErr
}

func makeRun(id string) domrun.Run {
	return domrun.Run{
		ID:        id,
		StartedAt: time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		Threshold: 0.7,
	}
}

// --- Tests ---

func TestList(t *testing.T) {
	repo := &mockRepo{listResult: []domrun.Run{makeRun("b"), makeRun("a")}}
	got, err := New(repo).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Errorf("List() = %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrRunNotFound}
	_, err := New(repo).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Fatalf("Get() error = %v, want ErrRunNotFound", err)
	}
}

func TestLatest(t *testing.T) {
	repo := &mockRepo{
		latestID:  "run-2",
		getResult: domrun.Snapshot{Run: makeRun("run-2")},
	}
	snap, err := New(repo).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap.Run.ID != "run-2" {
		t.Errorf("Latest() run id = %s", snap.Run.ID)
	}
}

func TestLatest_NoRuns(t *testing.T) {
	repo := &mockRepo{latestErr: domain.ErrNoRuns}
	_, err := New(repo).Latest(context.Background())
	if !errors.Is(err, domain.ErrNoRuns) {
		t.Fatalf("Latest() error = %v, want ErrNoRuns", err)
	}
}
