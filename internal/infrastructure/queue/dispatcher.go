package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// LoginDispatcher moves the post-login bookkeeping (the lastLogged touch)
// off the request path. Events shard to a fixed set of workers by user id,
// so updates for the same account never race each other.
type LoginDispatcher struct {
	workers []chan string
	users   ports.UserRepository
	log     zerolog.Logger
}

// NewLoginDispatcher creates a LoginDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewLoginDispatcher(numWorkers int, users ports.UserRepository, log zerolog.Logger) *LoginDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &LoginDispatcher{
		workers: make([]chan string, numWorkers),
		users:   users,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *LoginDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// RecordLogin enqueues a lastLogged touch for the user. Non-blocking up to
// channelBuffer capacity; implements ports.LoginRecorder.
func (d *LoginDispatcher) RecordLogin(userID string) {
	d.workers[d.shardIndex(userID)] <- userID
}

// shardIndex maps a user id deterministically to a worker index.
func (d *LoginDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *LoginDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case userID, ok := <-ch:
			if !ok {
				return
			}
			now := time.Now().UTC()
			if _, err := d.users.Update(ctx, userID, ports.UserUpdate{LastLogged: &now}); err != nil {
				d.log.Error().Err(err).
					Str("user_id", userID).
					Int("worker_id", id).
					Msg("last logged update failed")
			}
		}
	}
}
