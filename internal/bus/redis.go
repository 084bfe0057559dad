package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPublishTimeout bounds a single asynchronous publish.
const DefaultPublishTimeout = 5 * time.Second

// Redis is a Bus over Redis pub/sub. Every rank holds its own subscription
// to the job channel, which plays the role of its mailbox.
type Redis struct {
	client  *redis.Client
	channel string
	subs    []*redis.PubSub
	inbox   []<-chan *redis.Message
	logger  *slog.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// RedisOption configures a Redis bus.
type RedisOption func(*Redis)

// WithRedisLogger sets the logger used for publish failures.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPublishTimeout sets the timeout of each publish.
func WithPublishTimeout(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Channel returns the pub/sub channel name used for job.
func Channel(job string) string {
	return "pwdfinder:" + job + ":cancel"
}

// NewRedis subscribes workers ranks to the cancel channel of job. It returns
// only after every subscription is confirmed, so no notice published after
// NewRedis returns can be missed.
func NewRedis(ctx context.Context, client *redis.Client, job string, workers int, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, errors.New("nil redis client")
	}

	r := &Redis{
		client:  client,
		channel: Channel(job),
		logger:  slog.Default(),
		timeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := 0; i < workers; i++ {
		sub := client.Subscribe(ctx, r.channel)
		if _, err := sub.Receive(ctx); err != nil {
			_ = sub.Close()
			_ = r.closeSubs()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
		}
		r.subs = append(r.subs, sub)
		r.inbox = append(r.inbox, sub.Channel())
	}
	return r, nil
}

// Cancelled implements Bus. Notices published by rank itself are ignored.
func (r *Redis) Cancelled(rank int) bool {
	for {
		select {
		case msg, ok := <-r.inbox[rank]:
			if !ok {
				return false
			}
			if from, err := strconv.Atoi(msg.Payload); err == nil && from == rank {
				continue
			}
			return true
		default:
			return false
		}
	}
}

// Broadcast implements Bus. The publish runs in the background; failures are
// logged and not retried.
func (r *Redis) Broadcast(from int) error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.client.Publish(ctx, r.channel, strconv.Itoa(from)).Err(); err != nil {
			r.logger.Warn("failed to publish cancel notice",
				"channel", r.channel,
				"rank", from,
				"error", err,
			)
		}
	}()
	return nil
}

// Close waits for pending publishes and closes all subscriptions.
// The client itself is owned by the caller.
func (r *Redis) Close() error {
	r.wg.Wait()
	return r.closeSubs()
}

func (r *Redis) closeSubs() error {
	var errs []error
	for _, sub := range r.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.subs = nil
	return errors.Join(errs...)
}
