// Package scheduler provides delayed task dispatch on Redis via asynq. The
// API process enqueues reminders; the worker binary consumes them.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"homehunt_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// reminderLeadTime is how far ahead of the preferred tour date the reminder
// is delivered.
const reminderLeadTime = 24 * time.Hour

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleTourReminder enqueues a reminder task to be processed a day before
// the preferred tour date.
func (c *Client) ScheduleTourReminder(ctx context.Context, tourRequestID int64, preferredDate time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewTourReminderTask(TourReminderPayload{
		TourRequestID: tourRequestID,
		PreferredDate: preferredDate,
	})
	if err != nil {
		return err
	}

	runAt := preferredDate.Add(-reminderLeadTime)
	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
