package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"faultcapture/src/logs"
	"faultcapture/src/model"
	"faultcapture/src/repository"
)

type mockStore struct {
	records []*model.FaultRecord
	err     error
}

func (m *mockStore) Create(_ context.Context, rec *model.FaultRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

type countingBackend struct {
	calls int
}

func (c *countingBackend) Log(logs.Level, string, map[string]string) { c.calls++ }

func TestBackendForwardsAndJournalsAboveMinimum(t *testing.T) {
	next := &countingBackend{}
	store := &mockStore{}
	b := NewBackend(next, store, logs.LevelError)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	b.Log(logs.LevelWarning, "low", map[string]string{"file": "a.go"})
	b.Log(logs.LevelCritical, "out of memory", map[string]string{
		"file":  "/app/main.go",
		"line":  "12",
		"code":  "1",
		"class": "*fault.Fault",
		"trace": "#2 main.main()",
	})

	assert.Equal(t, 2, next.calls)
	require.Len(t, store.records, 1)

	rec := store.records[0]
	assert.Equal(t, "critical", rec.Level)
	assert.Equal(t, "out of memory", rec.Message)
	assert.Equal(t, "/app/main.go", rec.File)
	assert.Equal(t, 12, rec.Line)
	assert.Equal(t, 1, rec.Code)
	assert.Equal(t, "*fault.Fault", rec.Class)
	assert.Equal(t, "#2 main.main()", rec.Trace)
	assert.Equal(t, fixed, rec.CreatedAt)
	assert.NotEmpty(t, rec.TraceID.String())

	var ctx map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Context), &ctx))
	assert.Equal(t, "12", ctx["line"])
}

func TestBackendDropsFailedWrites(t *testing.T) {
	next := &countingBackend{}
	b := NewBackend(next, &mockStore{err: errors.New("db down")}, logs.LevelDebug)

	assert.NotPanics(t, func() { b.Log(logs.LevelAlert, "x", nil) })
	assert.Equal(t, 1, next.calls)
}

func TestRecordWithoutContext(t *testing.T) {
	rec := Record(logs.LevelInfo, "hello", nil)

	assert.Equal(t, "info", rec.Level)
	assert.Empty(t, rec.Context)
	assert.Zero(t, rec.Line)
}

func TestBackendWithRepository(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.FaultRecord{}))

	repo := repository.NewFaultRepository(db)
	d := logs.New(NewBackend(&countingBackend{}, repo, logs.LevelError))

	d.Critical("disk full", logs.Fields{"mount": "/var"})
	d.Warning("not journaled", nil)

	records, err := repo.FindLatest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "disk full", records[0].Message)
	assert.Contains(t, records[0].Context, `"mount":"/var"`)

	byLevel, err := repo.FindByLevel(context.Background(), "warning", 10)
	require.NoError(t, err)
	assert.Empty(t, byLevel)
}

func TestConfigLevel(t *testing.T) {
	t.Setenv("JOURNAL_MIN_LEVEL", "warning")

	level, err := GetConfig().Level()
	require.NoError(t, err)
	assert.Equal(t, logs.LevelWarning, level)
}
