package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbaez/airwave-e2e/internal/uiscan"
)

// Every screen's live markup must keep its interactive elements addressable:
// data-testid or an accessible label on each one. This is the same check the
// uiscan CLI runs statically, applied to the rendered DOM.
func TestRenderedScreensAreAddressable(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	for _, path := range []string{"/dashboard", "/assets", "/matrix", "/strategy"} {
		require.NoError(t, session.Goto(path))
		content, err := session.Page().Content()
		require.NoError(t, err)

		findings := uiscan.ScanSource(path, []byte(content))
		assert.Empty(t, findings, "unaddressable elements on %s: %v", path, findings)
	}
}

func TestLoginScreenIsAddressable(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.NewSession(t)
	require.NoError(t, session.Goto("/login"))

	content, err := session.Page().Content()
	require.NoError(t, err)
	findings := uiscan.ScanSource("/login", []byte(content))
	assert.Empty(t, findings)
}
