package worker

import (
	"context"
	"log"
	"time"

	"lyra/internal/repository"
	"lyra/internal/service"
)

const osdrRetentionDays = 180

// OSDRWorker периодически синхронизирует каталог OSDR и чистит
// записи, не обновлявшиеся дольше полугода
type OSDRWorker struct {
	service   service.OSDRService
	repo      repository.OsdrRepository
	interval  time.Duration
	stopChan  chan struct{}
	isRunning bool
}

func NewOSDRWorker(service service.OSDRService, repo repository.OsdrRepository, interval time.Duration) *OSDRWorker {
	return &OSDRWorker{
		service:  service,
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *OSDRWorker) Name() string {
	return "osdr"
}

func (w *OSDRWorker) Start() {
	if w.isRunning {
		return
	}

	w.isRunning = true
	log.Printf("OSDR Worker started with interval %v", w.interval)

	go w.run()
}

func (w *OSDRWorker) Stop() {
	if !w.isRunning {
		return
	}

	close(w.stopChan)
	w.isRunning = false
	log.Println("OSDR Worker stopped")
}

func (w *OSDRWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sync()

	for {
		select {
		case <-ticker.C:
			w.sync()
		case <-w.stopChan:
			return
		}
	}
}

func (w *OSDRWorker) sync() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := w.service.Sync(ctx); err != nil {
		log.Printf("OSDR Worker sync error: %v", err)
	} else {
		log.Println("OSDR Worker: catalog synced")
	}

	deleted, err := w.repo.DeleteOlderThan(ctx, osdrRetentionDays)
	if err != nil {
		log.Printf("OSDR Worker cleanup error: %v", err)
	} else if deleted > 0 {
		log.Printf("OSDR Worker: removed %d stale datasets", deleted)
	}
}
