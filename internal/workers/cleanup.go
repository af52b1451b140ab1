// Package workers — фоновые задачи обслуживания.
package workers

import (
	"context"
	"log"
	"time"

	"tankograd/internal/repositories"
)

// CodeCleanup периодически удаляет отработавшие коды входа: погашенные и
// просроченные строки старше окна хранения. Задача идемпотентна, на
// корректность выдачи и погашения не влияет.
type CodeCleanup struct {
	codes     repositories.LoginCodeRepository
	retention time.Duration
	interval  time.Duration

	now func() time.Time
}

func NewCodeCleanup(codes repositories.LoginCodeRepository, retention, interval time.Duration) *CodeCleanup {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &CodeCleanup{
		codes:     codes,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Run запускает цикл очистки до отмены контекста. Первый проход — сразу.
func (w *CodeCleanup) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[cleanup] stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CodeCleanup) runOnce(ctx context.Context) {
	cutoff := w.now().Add(-w.retention)
	n, err := w.codes.DeleteStaleBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[cleanup] failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[cleanup] removed %d stale login codes (cutoff=%s)", n, cutoff.Format(time.RFC3339))
	}
}
