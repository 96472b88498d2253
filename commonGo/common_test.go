package commonGo

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file should not error", func(t *testing.T) {
		err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
		assert.Nil(t, err)
	})
	t.Run("should load the variables without overwriting", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		err := os.WriteFile(envFile, []byte("MONITORING_TEST_NEW=from-file\nMONITORING_TEST_SET=from-file\n"), 0o600)
		require.NoError(t, err)

		t.Setenv("MONITORING_TEST_SET", "from-env")
		t.Cleanup(func() {
			_ = os.Unsetenv("MONITORING_TEST_NEW")
		})

		err = LoadEnvFile(envFile)
		require.NoError(t, err)

		val, found := LookupEnv("MONITORING_TEST_NEW")
		assert.True(t, found)
		assert.Equal(t, "from-file", val)

		val, found = LookupEnv("MONITORING_TEST_SET")
		assert.True(t, found)
		assert.Equal(t, "from-env", val)
	})
}

func TestLookupEnv_Empty(t *testing.T) {
	t.Setenv("MONITORING_TEST_EMPTY", "")

	_, found := LookupEnv("MONITORING_TEST_EMPTY")
	assert.False(t, found)
}

func TestAttachFileLogger_NotSaving(t *testing.T) {
	t.Parallel()

	handler, err := AttachFileLogger(logger.GetOrCreate("test"), "logs", "test", false, t.TempDir())
	assert.Nil(t, err)
	assert.Nil(t, handler)
}

func TestCronJobStarter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	CronJobStarter(ctx, func(ctx context.Context) {
		calls.Add(1)
	}, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	afterCancel := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, afterCancel, calls.Load())
}
