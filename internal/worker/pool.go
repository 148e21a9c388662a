package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

const (
	maxAttempts = 3
	dequeueWait = 30 * time.Second
	lockTTL     = 10 * time.Minute
)

type emailQueue interface {
	Enqueue(ctx context.Context, job *models.EmailJob) error
	Dequeue(ctx context.Context, timeout time.Duration) (*models.EmailJob, error)
	Lock(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, jobID uuid.UUID) error
}

type emailSender interface {
	Send(job *models.EmailJob) error
}

// Pool drains queue:emails with a fixed number of goroutines. Failed sends are
// re-queued with exponential backoff until maxAttempts is reached.
type Pool struct {
	queue       emailQueue
	email       emailSender
	workerCount int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	backoff func(retry int) time.Duration
	after   func(d time.Duration, fn func())
}

func NewPool(queue emailQueue, email emailSender, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:       queue,
		email:       email,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		backoff: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry)) * time.Second
		},
		after: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

// Stop cancels outstanding waits and blocks until every worker has returned.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		job, err := p.queue.Dequeue(p.ctx, dequeueWait)
		if err != nil {
			if p.ctx.Err() == nil {
				log.Printf("Worker %d: dequeue: %v", id, err)
				time.Sleep(time.Second)
			}
			continue
		}
		if job == nil {
			continue // Timeout, poll again
		}

		p.process(p.ctx, id, job)
	}
}

func (p *Pool) process(ctx context.Context, id int, job *models.EmailJob) {
	// Try to acquire lock
	locked, err := p.queue.Lock(ctx, job.ID, lockTTL)
	if err != nil || !locked {
		return // Another worker has this job
	}
	defer p.queue.Unlock(context.Background(), job.ID)

	log.Printf("Worker %d: sending %s email %s to %s", id, job.Kind, job.ID, job.To)

	if err := p.email.Send(job); err != nil {
		p.handleFailure(job, err)
	}
}

func (p *Pool) handleFailure(job *models.EmailJob, err error) {
	job.RetryCount++

	if job.RetryCount >= maxAttempts {
		log.Printf("Email job %s failed permanently after %d attempts: %v", job.ID, job.RetryCount, err)
		return
	}

	// Re-queue with backoff
	delay := p.backoff(job.RetryCount)
	log.Printf("Email job %s failed (attempt %d): %v, retrying in %s", job.ID, job.RetryCount, err, delay)
	retry := *job
	p.after(delay, func() {
		if err := p.queue.Enqueue(context.Background(), &retry); err != nil {
			log.Printf("Email job %s: re-queue failed: %v", retry.ID, err)
		}
	})
}
