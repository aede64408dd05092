package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbaez/airwave-e2e/internal/errs"
	"github.com/redbaez/airwave-e2e/internal/fixture"
	"github.com/redbaez/airwave-e2e/internal/harness"
	"github.com/redbaez/airwave-e2e/internal/pages"
)

func TestSwitchClientReflectsInStatus(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	dashboard := pages.NewDashboardPage(session)
	require.NoError(t, dashboard.Open())

	active, err := dashboard.ActiveClient()
	require.NoError(t, err)
	assert.Equal(t, fixture.DefaultClients[0], active)

	require.NoError(t, dashboard.SwitchClient(fixture.DefaultClients[1]))

	active, err = dashboard.ActiveClient()
	require.NoError(t, err)
	assert.Equal(t, fixture.DefaultClients[1], active)
}

func TestSwitchClientRejectsEmptyName(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	err := session.SelectClient("")
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestSwitchClientUnknownNameReportsAttemptedSelectors(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	dashboard := pages.NewDashboardPage(session)
	require.NoError(t, dashboard.Open())

	err := session.SelectClient("No Such Client")
	require.Error(t, err)
	assert.Equal(t, errs.ElementNotFound, errs.CodeOf(err))

	var lookup *harness.LookupError
	require.True(t, errors.As(err, &lookup),
		"exhausted lookup should expose the attempted selector list")
	assert.NotEmpty(t, lookup.Attempted)
	for _, sel := range lookup.Attempted {
		assert.Contains(t, sel, "No Such Client")
	}
}

func TestCampaignBriefIsRendered(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	dashboard := pages.NewDashboardPage(session)
	require.NoError(t, dashboard.Open())

	brief, err := dashboard.BriefText()
	require.NoError(t, err)
	assert.Contains(t, brief, "Summer Splash")
}
