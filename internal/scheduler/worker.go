package scheduler

import (
	"context"
	"errors"
	"fmt"

	"homehunt_backend/internal/events"
	"homehunt_backend/internal/tours/repository"
	"homehunt_backend/platform/config"
	"homehunt_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tours  *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		tours:  repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskTourReminder, w.handleTourReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleTourReminder re-reads the tour at delivery time: a listing removed by
// moderation or a request no longer pending silently drops the reminder.
func (w *Worker) handleTourReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTourReminderPayload(task)
	if err != nil {
		return err
	}

	tour, propertyTitle, requester, err := w.tours.GetTourRequest(ctx, payload.TourRequestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if tour.Status != repository.StatusPending {
		return nil
	}
	if !requester.IsActive {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.TourReminderDue{
		BaseEvent:          events.NewBaseEvent(),
		TourRequestID:      tour.ID,
		PropertyTitle:      propertyTitle,
		RequesterEmail:     requester.Email,
		RequesterFirstName: requester.FirstName,
		PreferredDate:      payload.PreferredDate,
	})

	return nil
}
