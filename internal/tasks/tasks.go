// Package tasks defines the background jobs of the association back-end
// and the asynq client used by the API to schedule them.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task type names
const (
	TypeWelcomeEmail      = "email:welcome"
	TypeRegistrationEmail = "email:registration"
	TypeMarkPastEvents    = "events:mark-past"
)

// Queue names, "immediate" is weighted higher by the worker
const (
	QueueImmediate = "immediate"
	QueueDefault   = "default"
)

// WelcomePayload identifies the member to greet
type WelcomePayload struct {
	UserID int64 `json:"user_id"`
}

// RegistrationPayload identifies the registration to confirm
type RegistrationPayload struct {
	RegistrationID int64 `json:"registration_id"`
}

// NewWelcomeTask creates the welcome e-mail task of a new member
func NewWelcomeTask(userID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomePayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal welcome payload: %w", err)
	}
	return asynq.NewTask(TypeWelcomeEmail, payload, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// NewRegistrationTask creates the confirmation e-mail task of an event registration
func NewRegistrationTask(registrationID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(RegistrationPayload{RegistrationID: registrationID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration payload: %w", err)
	}
	return asynq.NewTask(TypeRegistrationEmail, payload, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// NewMarkPastTask creates the task closing ended events.
// It is unique for a short window so overlapping scheduler ticks enqueue it once.
func NewMarkPastTask() *asynq.Task {
	return asynq.NewTask(TypeMarkPastEvents, nil, asynq.MaxRetry(1), asynq.Unique(time.Minute))
}

// NextRun returns the next activation of a standard five-field cron expression after from
func NextRun(expr string, from time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule.Next(from), nil
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client schedules e-mail tasks. It implements services.Notifier.
type Client struct {
	enqueuer Enqueuer
	logger   *zap.Logger
}

// NewClient creates a new task client
func NewClient(enqueuer Enqueuer, logger *zap.Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// NotifyWelcome enqueues the welcome e-mail of a new member
func (c *Client) NotifyWelcome(ctx context.Context, userID int64) error {
	task, err := NewWelcomeTask(userID)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, QueueDefault)
}

// NotifyRegistration enqueues the confirmation e-mail of an event registration
func (c *Client) NotifyRegistration(ctx context.Context, registrationID int64) error {
	task, err := NewRegistrationTask(registrationID)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, QueueImmediate)
}

// EnqueueMarkPast enqueues the task closing ended events.
// A duplicate of a pending task is not an error.
func (c *Client) EnqueueMarkPast(ctx context.Context) error {
	err := c.enqueue(ctx, NewMarkPastTask(), QueueDefault)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		c.logger.Debug("mark-past task already pending")
		return nil
	}
	return err
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, queue string) error {
	info, err := c.enqueuer.EnqueueContext(ctx, task, asynq.Queue(queue))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}
	c.logger.Debug("task enqueued",
		zap.String("type", task.Type()),
		zap.String("queue", info.Queue),
		zap.String("task_id", info.ID),
	)
	return nil
}

// NopNotifier drops every notification, used when Redis is disabled
type NopNotifier struct{}

// NotifyWelcome does nothing
func (NopNotifier) NotifyWelcome(context.Context, int64) error { return nil }

// NotifyRegistration does nothing
func (NopNotifier) NotifyRegistration(context.Context, int64) error { return nil }
