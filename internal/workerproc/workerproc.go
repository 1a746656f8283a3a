package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/queue"
)

// Processor runs the parse pipeline for one queued task. The candidates
// service satisfies this.
type Processor interface {
	ProcessParse(ctx context.Context, ownerID, candidateID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingCandidateID indicates a message without a candidate id.
type ErrMissingCandidateID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingCandidateID) Error() string { return "missing candidate id" }

// ErrProcess indicates the parse pipeline failed after a valid message.
type ErrProcess struct {
	CandidateID string
	RequestID   string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process parse task"
	}
	return "process parse task: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.CandidateID) == "" {
		return msg, meta, ErrMissingCandidateID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context so
// HandleMessage does not parse the body twice.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and processes one queue payload.
func HandleMessage(ctx context.Context, proc Processor, body string) error {
	if proc == nil {
		return errors.New("parse processor not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.CandidateID) == "" {
		return ErrMissingCandidateID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	ctxWithRequest := candidates.WithRequestID(ctx, msg.RequestID)
	if err := proc.ProcessParse(ctxWithRequest, msg.OwnerID, msg.CandidateID); err != nil {
		return ErrProcess{CandidateID: msg.CandidateID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}

// IsPermanent reports whether an error can never succeed on retry.
// Consumers drop permanent failures instead of requeueing them:
// malformed payloads stay malformed, and a candidate that is gone or
// has no resume stays that way. Everything else is worth a redelivery.
func IsPermanent(err error) bool {
	var emptyErr ErrEmptyBody
	var decodeErr ErrDecode
	var missingErr ErrMissingCandidateID
	if errors.As(err, &emptyErr) || errors.As(err, &decodeErr) || errors.As(err, &missingErr) {
		return true
	}
	if errors.Is(err, candidates.ErrNotFound) || errors.Is(err, candidates.ErrNoResume) {
		return true
	}
	return false
}
