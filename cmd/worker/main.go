package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/streadway/amqp"

	"hiring-backend/internal/bootstrap"
	"hiring-backend/internal/queue"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/telemetry"
	"hiring-backend/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 1200
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	switch cfg.QueueDriver {
	case "sqs":
		runSQS(ctx, cfg, app.ParseProcessor)
	case "amqp":
		runAMQP(ctx, cfg, app.ParseProcessor)
	default:
		log.Fatalf("QUEUE_DRIVER must be sqs or amqp for the worker, got %q", cfg.QueueDriver)
	}
}

func runSQS(ctx context.Context, cfg config.Config, proc bootstrap.ParseProcessor) {
	queueURL := strings.TrimSpace(cfg.SQSQueueURL)
	if queueURL == "" {
		log.Fatal("HT_SQS_QUEUE_URL is required")
	}

	visibilitySeconds := envInt("HT_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("HT_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("HT_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("worker started driver=sqs queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, visibilitySeconds)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncWorkerJobsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, proc, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage runs one SQS message through the parse pipeline.
// Unprocessable messages are deleted so they cannot loop; transient
// failures stay in flight for redelivery and the redrive policy.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, proc bootstrap.ParseProcessor, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	if strings.TrimSpace(body) == "" {
		fields := baseFields(msg, "", "")
		fields["body_len"] = 0
		telemetry.Error("worker.parse.empty_body", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", "") {
			metrics.IncWorkerJobsDropped()
		}
		return
	}

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		requestID := ""
		var missingErr workerproc.ErrMissingCandidateID
		if errors.As(err, &missingErr) {
			requestID = missingErr.RequestID
		}
		fields := baseFields(msg, "", requestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.parse.bad_message", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", requestID) {
			metrics.IncWorkerJobsDropped()
		}
		return
	}

	telemetry.Info("worker.parse.received", baseFields(msg, decoded.CandidateID, decoded.RequestID))

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctxWithParsed, proc, body); err != nil {
		fields := baseFields(msg, decoded.CandidateID, decoded.RequestID)
		fields["error"] = err.Error()
		if workerproc.IsPermanent(err) {
			telemetry.Error("worker.parse.dropped", fields)
			if deleteMessage(ctx, client, queueURL, msg, decoded.CandidateID, decoded.RequestID) {
				metrics.IncWorkerJobsDropped()
			}
			return
		}
		telemetry.Error("worker.parse.failed", fields)
		metrics.IncWorkerJobsFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.CandidateID, decoded.RequestID) {
		telemetry.Info("worker.parse.completed", baseFields(msg, decoded.CandidateID, decoded.RequestID))
		metrics.IncWorkerJobsCompleted()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, candidateID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, candidateID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.parse.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, candidateID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.parse.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, candidateID, requestID string) map[string]any {
	fields := map[string]any{
		"candidate_id":   candidateID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

// runAMQP consumes the work queue one delivery at a time. A transient
// failure gets a single requeue; a redelivered or permanent failure is
// nacked without requeue so the broker's dead-letter setup keeps it.
func runAMQP(ctx context.Context, cfg config.Config, proc bootstrap.ParseProcessor) {
	client, err := queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		log.Fatalf("amqp connect: %v", err)
	}
	defer client.Close()

	deliveries, err := client.Consume()
	if err != nil {
		log.Fatalf("amqp consume: %v", err)
	}

	log.Printf("worker started driver=amqp queue=%s", cfg.AMQPQueue)

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutdown requested")
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Printf("amqp delivery channel closed")
				return
			}
			metrics.IncWorkerJobsReceived()
			handleDelivery(ctx, proc, d)
		}
	}
}

func handleDelivery(ctx context.Context, proc bootstrap.ParseProcessor, d amqp.Delivery) {
	err := workerproc.HandleMessage(ctx, proc, string(d.Body))
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			telemetry.Error("worker.parse.ack_failed", map[string]any{"error": ackErr.Error()})
			return
		}
		metrics.IncWorkerJobsCompleted()
		return
	}

	fields := map[string]any{"error": err.Error(), "redelivered": d.Redelivered}
	var procErr workerproc.ErrProcess
	if errors.As(err, &procErr) {
		fields["candidate_id"] = procErr.CandidateID
		if procErr.RequestID != "" {
			fields["request_id"] = procErr.RequestID
		}
	}

	requeue := !d.Redelivered && !workerproc.IsPermanent(err)
	if requeue {
		telemetry.Error("worker.parse.failed", fields)
		metrics.IncWorkerJobsFailed()
	} else {
		telemetry.Error("worker.parse.dropped", fields)
		metrics.IncWorkerJobsDropped()
	}
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		telemetry.Error("worker.parse.nack_failed", map[string]any{"error": nackErr.Error()})
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
