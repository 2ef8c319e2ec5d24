package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/justsurfingit/talentbridge/internal/models"
)

var (
	ErrQueueFull   = errors.New("upload queue is full")
	ErrQueueClosed = errors.New("upload queue is closed")
)

// UploadTask is one resume waiting to be sent to the analysis endpoint.
// UserType is the session that submitted it.
type UploadTask struct {
	ID       string          `json:"id"`
	FileName string          `json:"file_name"`
	Data     []byte          `json:"data"`
	UserType models.UserType `json:"user_type"`
	QueuedAt time.Time       `json:"queued_at"`
}

type Handler func(ctx context.Context, task UploadTask)

// Queue decouples accepting an upload from the slow backend call.
type Queue interface {
	Publish(ctx context.Context, task UploadTask) error
	// Consume runs handler for each task until ctx is done or the queue closes.
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

// MemoryQueue is a bounded in-process queue.
type MemoryQueue struct {
	tasks     chan UploadTask
	closeOnce sync.Once
	done      chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{tasks: make(chan UploadTask, size), done: make(chan struct{})}
}

func (q *MemoryQueue) Publish(ctx context.Context, task UploadTask) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case task := <-q.tasks:
			handler(ctx, task)
		}
	}
}

func (q *MemoryQueue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}
