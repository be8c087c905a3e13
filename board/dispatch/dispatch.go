package dispatch

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// TaskKind identifies what a task does and which handler runs it.
type TaskKind string

const (
	TaskKindNotification TaskKind = "notification"  // In-app notification row
	TaskKindEmail        TaskKind = "email"         // Outbound mail
	TaskKindFileCleanup  TaskKind = "file_cleanup"  // Stored attachment removal
)

// Task is one unit of deferred side-effect work. Payload stays raw until the
// handler for the kind decodes it.
type Task struct {
	ID           kernel.TaskID   `json:"id"`
	Kind         TaskKind        `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	AttemptCount int             `json:"attempt_count"`
	EnqueuedAt   time.Time       `json:"enqueued_at"`
}

// NotificationPayload creates an in-app notification for a user.
type NotificationPayload struct {
	UserID kernel.UserID `json:"user_id"`
	Title  string        `json:"title"`
	Body   string        `json:"body"`
}

// EmailPayload sends one mail.
type EmailPayload struct {
	To      kernel.Email `json:"to"`
	Subject string       `json:"subject"`
	Body    string       `json:"body"`
}

// FileCleanupPayload removes one stored object.
type FileCleanupPayload struct {
	Path string `json:"path"`
}

func newTask(kind TaskKind, payload any) *Task {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload types are plain structs; marshalling them cannot fail.
		panic(err)
	}
	return &Task{
		ID:         kernel.NewTaskID(uuid.NewString()),
		Kind:       kind,
		Payload:    data,
		EnqueuedAt: time.Now(),
	}
}

// NewNotificationTask builds an in-app notification task.
func NewNotificationTask(userID kernel.UserID, title, body string) *Task {
	return newTask(TaskKindNotification, NotificationPayload{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
}

// NewEmailTask builds an outbound mail task.
func NewEmailTask(to kernel.Email, subject, body string) *Task {
	return newTask(TaskKindEmail, EmailPayload{
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

// NewFileCleanupTask builds a stored-object removal task.
func NewFileCleanupTask(path string) *Task {
	return newTask(TaskKindFileCleanup, FileCleanupPayload{Path: path})
}

// DeadLetter is a task that exhausted its retries, kept for operator
// inspection and manual replay.
type DeadLetter struct {
	ID           kernel.TaskID   `db:"id" json:"id"`
	Kind         TaskKind        `db:"kind" json:"kind"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	AttemptCount int             `db:"attempt_count" json:"attempt_count"`
	LastError    string          `db:"last_error" json:"last_error"`
	EnqueuedAt   time.Time       `db:"enqueued_at" json:"enqueued_at"`
	FailedAt     time.Time       `db:"failed_at" json:"failed_at"`
}
