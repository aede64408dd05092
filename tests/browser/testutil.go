// Package browser holds the Playwright browser test suite. All test files use
// BrowserTestEnv via SetupBrowserTestEnv(t). With AIRWAVE_BASE_URL unset the
// suite runs hermetically against the in-repo fixture server.
package browser

import (
	"context"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/assetstore"
	"github.com/redbaez/airwave-e2e/internal/config"
	"github.com/redbaez/airwave-e2e/internal/fixture"
	"github.com/redbaez/airwave-e2e/internal/harness"
	"github.com/redbaez/airwave-e2e/internal/obs"
	"github.com/redbaez/airwave-e2e/internal/ratelimit"
)

const (
	fixtureEmail    = "qa@airwave.app"
	fixturePassword = "correct-horse"
	fixtureBucket   = "airwave-test-assets"

	// Never introduce a larger timeout value anywhere in tests/browser.
	browserMaxTimeout = 5 * time.Second
)

var browserFixtureMu sync.Mutex
var browserSharedFixture *BrowserTestEnv

// BrowserTestEnv is the shared environment for all browser tests: the target
// base URL (fixture or external), the harness configuration, and the lazily
// launched browser.
type BrowserTestEnv struct {
	BaseURL string
	Config  *config.Config
	Run     *harness.Run

	// Fixture-mode only; nil against an external deployment.
	Fixture *fixture.Server
	Server  *httptest.Server

	browser      *harness.Browser
	browserMu    sync.Mutex
	fakeS3Server *httptest.Server
}

// SetupBrowserTestEnv returns the shared environment with per-test state
// reset. The fixture server, asset store and browser are created once and
// reused across the whole package run.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("browser tests skipped in -short mode")
	}

	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture == nil {
		browserSharedFixture = createBrowserTestEnv(t)
	}
	if browserSharedFixture.Fixture != nil {
		browserSharedFixture.Fixture.ResetState()
	}
	return browserSharedFixture
}

func createBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load harness config: %v", err)
	}

	run, err := harness.NewRun(cfg.ResultsDir)
	if err != nil {
		t.Fatalf("create results run: %v", err)
	}

	env := &BrowserTestEnv{Config: cfg, Run: run}

	if cfg.FixtureMode() {
		store, fakeS3 := createMockS3(t, fixtureBucket)
		env.fakeS3Server = fakeS3
		noThrottle := ratelimit.Config{RPS: 10000, Burst: 100000, CleanupInterval: time.Hour}
		srv := fixture.NewServer(fixture.Options{
			Store:            store,
			ProgressInterval: 20 * time.Millisecond,
			LoginLimit:       &noThrottle,
		})
		if err := srv.Sessions().Seed(fixtureEmail, fixturePassword); err != nil {
			t.Fatalf("seed fixture account: %v", err)
		}
		env.Fixture = srv
		env.Server = httptest.NewServer(srv.Handler())
		env.BaseURL = env.Server.URL
	} else {
		env.BaseURL = cfg.BaseURL
	}
	return env
}

// Email returns the login email for the environment under test.
func (env *BrowserTestEnv) Email() string {
	if env.Config.Email != "" {
		return env.Config.Email
	}
	return fixtureEmail
}

// Password returns the login password for the environment under test.
func (env *BrowserTestEnv) Password() string {
	if env.Config.Password != "" {
		return env.Config.Password
	}
	return fixturePassword
}

// InitBrowser launches Chromium once for the package. Skips the test when
// Playwright or the browser is unavailable on this machine.
func (env *BrowserTestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.browserMu.Lock()
	defer env.browserMu.Unlock()

	if env.browser != nil {
		return
	}
	browser, err := harness.Launch(env.Config)
	if err != nil {
		t.Skip("Browser not available:", err)
	}
	env.browser = browser
}

// NewPage creates a page in a fresh isolated context.
func (env *BrowserTestEnv) NewPage(t *testing.T) playwright.Page {
	t.Helper()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	t.Cleanup(func() { _ = page.Close() })
	return page
}

// NewSession creates a page and binds a session helper to it.
func (env *BrowserTestEnv) NewSession(t *testing.T) *harness.Session {
	t.Helper()
	return harness.NewSession(env.NewPage(t), env.BaseURL, env.Config)
}

// LoginFresh creates a session and logs in with the configured credentials.
func (env *BrowserTestEnv) LoginFresh(t *testing.T) *harness.Session {
	t.Helper()
	session := env.NewSession(t)
	if err := session.Login(env.Email(), env.Password()); err != nil {
		t.Fatalf("login: %v", err)
	}
	return session
}

func cleanupSharedBrowserTestEnv() {
	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture == nil {
		return
	}
	if browserSharedFixture.browser != nil {
		browserSharedFixture.browser.Close()
	}
	if browserSharedFixture.Server != nil {
		browserSharedFixture.Server.Close()
	}
	if browserSharedFixture.Fixture != nil {
		browserSharedFixture.Fixture.Close()
	}
	if browserSharedFixture.fakeS3Server != nil {
		browserSharedFixture.fakeS3Server.Close()
	}
	if browserSharedFixture.Run != nil {
		_, _ = browserSharedFixture.Run.WriteReport()
	}
	browserSharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedBrowserTestEnv()
	os.Exit(code)
}

// createMockS3 starts an in-memory S3 and returns a store pointed at it. The
// returned server outlives any single test; cleanupSharedBrowserTestEnv
// closes it.
func createMockS3(t *testing.T, bucketName string) (*assetstore.Store, *httptest.Server) {
	t.Helper()

	backend := s3mem.New()
	faker := gofakes3.New(backend)
	ts := httptest.NewServer(faker.Server())

	ctx := context.Background()
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		),
	)
	if err != nil {
		ts.Close()
		t.Fatalf("load AWS config: %v", err)
	}

	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true // required for gofakes3
	})
	if _, err := s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		ts.Close()
		t.Fatalf("create test bucket: %v", err)
	}

	return assetstore.NewFromS3Client(s3Client, bucketName, ts.URL+"/"+bucketName), ts
}
