package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbaez/airwave-e2e/internal/errs"
	"github.com/redbaez/airwave-e2e/internal/harness"
	"github.com/redbaez/airwave-e2e/internal/pages"
)

func TestUploadMultipleFilesPreservesOrder(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	assets := pages.NewAssetsPage(session)
	require.NoError(t, assets.Open())

	err := assets.UploadFiles(browserMaxTimeout,
		harness.JPEGFixture("c.jpg"),
		harness.JPEGFixture("a.jpg"),
		harness.JPEGFixture("b.jpg"),
	)
	require.NoError(t, err)

	names, err := assets.AssetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, names,
		"display order must match selection order, not sorted order")
}

func TestUploadViaSyntheticDrop(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	assets := pages.NewAssetsPage(session)
	require.NoError(t, assets.Open())

	require.NoError(t, assets.DropFile(browserMaxTimeout, harness.JPEGFixture("dropped.jpg")))

	names, err := assets.AssetNames()
	require.NoError(t, err)
	assert.Contains(t, names, "dropped.jpg")
}

func TestUploadWithNoFilesIsRejected(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	assets := pages.NewAssetsPage(session)
	require.NoError(t, assets.Open())

	err := harness.UploadViaChooser(session.Page(), pages.AssetUploadButton, nil, harness.ResolveOptions{})
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestMissingElementReportsEveryAttemptedSelector(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)

	session := env.LoginFresh(t)
	require.NoError(t, session.Goto("/assets"))

	bogus := harness.NewTarget("nonexistent widget",
		harness.TestID("never-rendered"),
		harness.CSS("#never-rendered"),
		harness.Role("button", "Never rendered"),
	)
	_, err := harness.Resolve(session.Page(), bogus, harness.ResolveOptions{})
	require.Error(t, err)
	assert.Equal(t, errs.ElementNotFound, errs.CodeOf(err))

	var lookup *harness.LookupError
	require.True(t, errors.As(err, &lookup))
	require.Len(t, lookup.Attempted, 3, "every candidate should be listed, in order")
	assert.Equal(t, `[data-testid="never-rendered"]`, lookup.Attempted[0])
	assert.Equal(t, "#never-rendered", lookup.Attempted[1])
}
