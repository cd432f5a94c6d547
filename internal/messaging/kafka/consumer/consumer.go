package consumer

import (
	"context"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ErrSkip marks a message that can never succeed. It is committed and dropped.
var ErrSkip = errors.New("skip message")

// HandleFunc processes one message. Returning an error other than ErrSkip
// leaves the message uncommitted.
type HandleFunc func(ctx context.Context, msg kafkago.Message) error

// NewReader builds a consumer-group reader for one topic.
func NewReader(brokers []string, groupID, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Backoff bounds the delay between attempts on the same message and after a
// failed fetch. Tests shrink it.
var (
	InitialBackoff = 500 * time.Millisecond
	MaxBackoff     = 30 * time.Second
)

// Run fetches until ctx is done. A message that fails is retried with backoff
// until it succeeds or is skipped, so the group offset never moves past it.
func Run(ctx context.Context, name string, reader MessageReader, handle HandleFunc, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			if !sleep(ctx, InitialBackoff) {
				log.Info("consumer stopped")
				return
			}
			continue
		}

		if !handleWithRetry(ctx, reader, handle, msg, log) {
			log.Info("consumer stopped")
			return
		}
	}
}

// handleWithRetry reports false when ctx ended before the message was done.
func handleWithRetry(ctx context.Context, reader MessageReader, handle HandleFunc, msg kafkago.Message, log *zap.Logger) bool {
	delay := InitialBackoff
	for attempt := 1; ; attempt++ {
		if handleOne(ctx, reader, handle, msg, log, attempt) {
			return true
		}
		if !sleep(ctx, delay) {
			return false
		}
		delay = min(delay*2, MaxBackoff)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// handleOne reports whether the message was committed.
func handleOne(ctx context.Context, reader MessageReader, handle HandleFunc, msg kafkago.Message, log *zap.Logger, attempt int) bool {
	fields := []zap.Field{
		zap.Int("attempt", attempt),
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.String("key", string(msg.Key)),
	}

	if err := handle(ctx, msg); err != nil {
		if !errors.Is(err, ErrSkip) {
			log.Error("handle message failed, will retry", append(fields, zap.Error(err))...)
			return false
		}
		log.Warn("message skipped", append(fields, zap.Error(err))...)
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit message failed", append(fields, zap.Error(err))...)
		return false
	}
	log.Debug("message committed", fields...)
	return true
}
