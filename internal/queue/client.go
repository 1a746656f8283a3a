package queue

import "context"

// Client enqueues resume parse jobs for the worker. Implementations
// exist for SQS and AMQP; a nil client means parsing runs inline in
// the API process.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
