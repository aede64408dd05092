package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbaez/airwave-e2e/internal/errs"
	"github.com/redbaez/airwave-e2e/internal/harness"
	"github.com/redbaez/airwave-e2e/internal/pages"
)

// matrixWithCapture logs in on a page whose WebSocket constructor is wrapped
// before any navigation, then opens the matrix screen.
func matrixWithCapture(t *testing.T, env *BrowserTestEnv) (*pages.MatrixPage, *harness.Capture) {
	t.Helper()

	page := env.NewPage(t)
	capture, err := harness.InstallCapture(page)
	require.NoError(t, err)

	session := harness.NewSession(page, env.BaseURL, env.Config)
	require.NoError(t, session.Login(env.Email(), env.Password()))

	matrix := pages.NewMatrixPage(session, capture)
	require.NoError(t, matrix.Open())
	return matrix, capture
}

func TestGenerationStreamsProgressToCompletion(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	matrix, capture := matrixWithCapture(t, env)
	require.NoError(t, matrix.StartGeneration())
	require.NoError(t, capture.WaitForConnection(browserMaxTimeout))

	mid, err := matrix.WaitForProgress(50, browserMaxTimeout)
	require.NoError(t, err)
	decoded, err := mid.Decoded()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, decoded["progress"].(float64), 50.0)

	done, err := matrix.WaitForCompletion(browserMaxTimeout)
	require.NoError(t, err)
	decoded, err = done.Decoded()
	require.NoError(t, err)
	assert.Equal(t, "generation_complete", decoded["type"])
	assert.Equal(t, "completed", decoded["status"])
}

func TestGenerationProgressIsMonotonic(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	matrix, capture := matrixWithCapture(t, env)
	require.NoError(t, matrix.StartGeneration())
	_, err := matrix.WaitForCompletion(browserMaxTimeout)
	require.NoError(t, err)

	messages, err := capture.Messages()
	require.NoError(t, err)
	require.NotEmpty(t, messages)

	last := -1.0
	for _, msg := range messages {
		decoded, err := msg.Decoded()
		require.NoError(t, err)
		if decoded["type"] != "generation_progress" {
			continue
		}
		progress := decoded["progress"].(float64)
		assert.GreaterOrEqual(t, progress, last, "progress must not move backwards")
		last = progress
	}
	assert.Equal(t, 100.0, last, "final progress frame should reach 100")
}

func TestLastMessageAndClear(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	matrix, capture := matrixWithCapture(t, env)
	require.NoError(t, matrix.StartGeneration())
	_, err := matrix.WaitForCompletion(browserMaxTimeout)
	require.NoError(t, err)

	last, ok, err := capture.LastMessage()
	require.NoError(t, err)
	require.True(t, ok)
	decoded, err := last.Decoded()
	require.NoError(t, err)
	assert.Equal(t, "generation_complete", decoded["type"])

	require.NoError(t, capture.ClearMessages())
	messages, err := capture.Messages()
	require.NoError(t, err)
	assert.Empty(t, messages)

	_, ok, err = capture.LastMessage()
	require.NoError(t, err)
	assert.False(t, ok, "cleared log has no last message")
}

func TestWaitForMessageByType(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	matrix, capture := matrixWithCapture(t, env)
	require.NoError(t, matrix.StartGeneration())

	msg, err := capture.WaitForMessage("generation_progress", browserMaxTimeout)
	require.NoError(t, err)
	decoded, err := msg.Decoded()
	require.NoError(t, err)
	assert.Equal(t, "generation_progress", decoded["type"])
}

func TestWaitForConnectionTimesOutWithoutSocket(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	page := env.NewPage(t)
	capture, err := harness.InstallCapture(page)
	require.NoError(t, err)

	session := harness.NewSession(page, env.BaseURL, env.Config)
	require.NoError(t, session.Goto("/login"))

	start := time.Now()
	err = capture.WaitForConnection(1 * time.Second)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, errs.ConnectionTimeout, errs.CodeOf(err))
	assert.True(t, errs.IsTimeout(err))
	assert.GreaterOrEqual(t, elapsed, 1*time.Second, "the wait must run its full bound")
	assert.Less(t, elapsed, 3*time.Second, "the wait must not hang past its bound")
}

func TestWaitForMessageTimeoutNamesExpectedType(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	matrix, _ := matrixWithCapture(t, env)
	_, err := matrix.Capture().WaitForMessage("never_sent_type", 1*time.Second)
	require.Error(t, err)
	assert.Equal(t, errs.MessageTimeout, errs.CodeOf(err))
	assert.Contains(t, err.Error(), "never_sent_type",
		"timeout should name the message type it was waiting for")
}
