package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studytrack-backend/internal/models"
)

const EmailQueue = "queue:emails"

type EmailQueueRepo struct {
	redis *redis.Client
}

func NewEmailQueueRepo(client *redis.Client) *EmailQueueRepo {
	return &EmailQueueRepo{redis: client}
}

func (q *EmailQueueRepo) Enqueue(ctx context.Context, job *models.EmailJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.redis.RPush(ctx, EmailQueue, data).Err()
}

// Dequeue blocks up to timeout for the next job. It returns (nil, nil) when
// the wait times out.
func (q *EmailQueueRepo) Dequeue(ctx context.Context, timeout time.Duration) (*models.EmailJob, error) {
	result, err := q.redis.BLPop(ctx, timeout, EmailQueue).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job models.EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Lock claims a job so that a duplicate delivery is skipped by other workers.
func (q *EmailQueueRepo) Lock(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (bool, error) {
	return q.redis.SetNX(ctx, emailLockKey(jobID), "1", ttl).Result()
}

func (q *EmailQueueRepo) Unlock(ctx context.Context, jobID uuid.UUID) error {
	return q.redis.Del(ctx, emailLockKey(jobID)).Err()
}

func emailLockKey(jobID uuid.UUID) string {
	return "email_lock:" + jobID.String()
}
