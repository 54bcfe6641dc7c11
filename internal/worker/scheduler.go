package worker

import (
	"log"
	"sync"
	"time"
)

type Worker interface {
	Name() string
	Start()
	Stop()
}

// Scheduler владеет фоновыми воркерами дашборда и останавливает их
// одной командой при завершении процесса
type Scheduler struct {
	workers []Worker
	wg      sync.WaitGroup
	stopped bool
	mu      sync.RWMutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
	}
}

func (s *Scheduler) AddWorker(worker Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, worker)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	log.Printf("scheduler: starting %d workers", len(s.workers))

	for _, worker := range s.workers {
		s.wg.Add(1)
		go func(w Worker) {
			defer s.wg.Done()
			log.Printf("scheduler: %s worker starting", w.Name())
			w.Start()
		}(worker)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	log.Println("scheduler: stopping workers...")

	for _, worker := range s.workers {
		worker.Stop()
		log.Printf("scheduler: %s worker stopped", worker.Name())
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	// Таймаут на остановку
	select {
	case <-done:
		log.Println("scheduler: stopped gracefully")
	case <-time.After(10 * time.Second):
		log.Println("scheduler: stop timeout")
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.stopped
}
