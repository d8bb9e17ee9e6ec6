package queue

import "context"

// Job is a registered handler for one message type.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one message. Returning an error schedules a
	// retry; deterministic failures should be recorded by the handler
	// and swallowed so they are not retried.
	Handle(ctx context.Context, payload interface{}) error
}
