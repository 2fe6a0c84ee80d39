package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust their retries land on a per-queue dead letter list
// (dlq:{queue}). Entries are plain JSON so an operator can inspect them with
// redis-cli and requeue by hand; the nightly recost pass also covers any
// recosteo job lost this way.
const DLQPrefix = "dlq:"

type DLQEntry struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

func sendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	entry := DLQEntry{
		Queue:    queue,
		Job:      job,
		Reason:   reason,
		Attempts: maxJobAttempts,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo guardar la entrada")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("reason", reason).
		Msg("dlq: trabajo movido a la cola de descarte")
}

// DLQLength exposes the dead letter backlog of a queue for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
