package bootstrap

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faultcapture/src/capture"
	"faultcapture/src/fault"
	"faultcapture/src/logs"
)

func TestBuildWithoutJournal(t *testing.T) {
	capture.ResetHooksForTesting()
	t.Setenv("ERROR_REPORTING", "E_ERROR|E_USER_ERROR")

	s, err := Build()
	require.NoError(t, err)

	assert.Nil(t, s.DB)
	assert.Nil(t, s.Faults)
	assert.True(t, s.Capture.Registered())
	assert.Equal(t, fault.KindError|fault.KindUserError, s.Capture.Mask())
	assert.IsType(t, &logs.LogrusBackend{}, s.Dispatcher.Backend())
}

func TestBuildWithSQLiteJournal(t *testing.T) {
	capture.ResetHooksForTesting()
	t.Setenv("ENABLE_DB", "true")
	t.Setenv("JOURNAL_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	t.Setenv("GORM_LOG_LEVEL", "1")

	s, err := Build()
	require.NoError(t, err)
	require.NotNil(t, s.Faults)

	s.Dispatcher.Critical("journaled", nil)

	records, err := s.Faults.FindLatest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "journaled", records[0].Message)
}

func TestBuildRejectsBadMask(t *testing.T) {
	capture.ResetHooksForTesting()
	t.Setenv("ERROR_REPORTING", "E_SOMETHING")

	_, err := Build()
	assert.Error(t, err)
}
