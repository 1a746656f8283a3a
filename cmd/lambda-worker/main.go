package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"hiring-backend/internal/bootstrap"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/telemetry"
	"hiring-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

// handler processes an SQS batch with partial-failure reporting.
// Permanent failures are not reported back; returning them as failures
// would only redeliver payloads that can never succeed.
func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, app.ParseProcessor, record.Body)
		if err == nil {
			continue
		}
		if workerproc.IsPermanent(err) {
			telemetry.Error("worker.parse.dropped", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
			continue
		}
		telemetry.Error("worker.parse.failed", map[string]any{
			"sqs_message_id": record.MessageId,
			"error":          err.Error(),
		})
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
