package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"tankograd/internal/models"
)

type fakeCodeRepo struct {
	deleteFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (f *fakeCodeRepo) Insert(ctx context.Context, lc *models.LoginCode) error { return nil }
func (f *fakeCodeRepo) Claim(ctx context.Context, code string, now time.Time) (*models.LoginCode, error) {
	return nil, nil
}
func (f *fakeCodeRepo) Stats(ctx context.Context, now time.Time) (int64, int64, int64, error) {
	return 0, 0, 0, nil
}
func (f *fakeCodeRepo) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.deleteFn(ctx, cutoff)
}

func TestCodeCleanup_RunOnce_Cutoff(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time

	w := NewCodeCleanup(&fakeCodeRepo{
		deleteFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 3, nil
		},
	}, 24*time.Hour, time.Hour)
	w.now = func() time.Time { return now }

	w.runOnce(context.Background())
	want := now.Add(-24 * time.Hour)
	if !gotCutoff.Equal(want) {
		t.Errorf("cutoff = %s, want %s", gotCutoff, want)
	}
}

func TestCodeCleanup_RunOnce_ErrorTolerated(t *testing.T) {
	w := NewCodeCleanup(&fakeCodeRepo{
		deleteFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}, 24*time.Hour, time.Hour)

	// ошибка удаления логируется и не валит воркер
	w.runOnce(context.Background())
}

func TestCodeCleanup_RunStopsOnCancel(t *testing.T) {
	calls := 0
	w := NewCodeCleanup(&fakeCodeRepo{
		deleteFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			calls++
			return 0, nil
		},
	}, 24*time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
	if calls < 1 {
		t.Errorf("first pass did not run, calls = %d", calls)
	}
}
