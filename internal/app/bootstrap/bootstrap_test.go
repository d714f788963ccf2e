package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9000", normalizeAddr("9000"))
	assert.Equal(t, ":9000", normalizeAddr(" :9000 "))
}

func TestBuildAPIFallsBackToMemory(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("MESSAGING_DRIVER", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REPUTATION_BASE_URL", "")

	app, err := BuildAPI()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NotNil(t, app.embedded)
	assert.Nil(t, app.runtime.postgres)
	assert.True(t, app.runtime.inProcess)
	assert.NotNil(t, app.runtime.moderation.Store)
	assert.Nil(t, app.runtime.moderation.OutboxRelay.Publisher)
}

func TestBuildWorkerRequiresPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_DSN", "")

	_, err := BuildWorker()
	require.Error(t, err)
}

func TestBuildAPIRejectsBadRedisURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("MESSAGING_DRIVER", "")
	t.Setenv("REDIS_URL", "not a url")

	_, err := BuildAPI()
	require.Error(t, err)
}
