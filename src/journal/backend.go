// Package journal persists log records at or above a minimum level next to
// the backend they are written to.
package journal

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"faultcapture/src/logs"
	"faultcapture/src/model"
)

// Store saves journal records.
type Store interface {
	Create(ctx context.Context, rec *model.FaultRecord) error
}

// Backend forwards every record to next and journals those at or above
// the minimum level. A failed write is logged and dropped.
type Backend struct {
	next     logs.Backend
	store    Store
	minLevel logs.Level
	timeout  time.Duration
	now      func() time.Time
}

func NewBackend(next logs.Backend, store Store, minLevel logs.Level) *Backend {
	return &Backend{
		next:     next,
		store:    store,
		minLevel: minLevel,
		timeout:  5 * time.Second,
		now:      time.Now,
	}
}

func (b *Backend) Log(level logs.Level, message string, context map[string]string) {
	b.next.Log(level, message, context)
	if level < b.minLevel {
		return
	}

	rec := Record(level, message, context)
	rec.CreatedAt = b.now()
	if err := b.persist(rec); err != nil {
		logger.WithError(err).WithFields(map[string]interface{}{
			"trace_id": rec.TraceID.String(),
			"level":    rec.Level,
		}).Error("[journal] failed to persist fault record")
	}
}

func (b *Backend) persist(rec *model.FaultRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	return b.store.Create(ctx, rec)
}

// Record builds the journal row for a serialized log record.
func Record(level logs.Level, message string, ctx map[string]string) *model.FaultRecord {
	rec := &model.FaultRecord{
		TraceID: uuid.New(),
		Level:   level.String(),
		Message: message,
		File:    ctx["file"],
		Class:   ctx["class"],
		Trace:   ctx["trace"],
	}
	rec.Line, _ = strconv.Atoi(ctx["line"])
	rec.Code, _ = strconv.Atoi(ctx["code"])

	if len(ctx) > 0 {
		if raw, err := json.Marshal(ctx); err == nil {
			rec.Context = string(raw)
		}
	}
	return rec
}
