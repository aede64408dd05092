package fixture

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbaez/airwave-e2e/internal/assetstore"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server, *http.Client) {
	t.Helper()
	if opts.ProgressInterval == 0 {
		opts.ProgressInterval = time.Millisecond
	}
	srv := NewServer(opts)
	t.Cleanup(srv.Close)
	require.NoError(t, srv.Sessions().Seed("qa@airwave.app", "correct-horse"))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, ts, &http.Client{Jar: jar}
}

func login(t *testing.T, ts *httptest.Server, client *http.Client, email, password string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(ts.URL+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_LoginSetsSessionAndLandsOnDashboard(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})

	resp := login(t, ts, client, "qa@airwave.app", "correct-horse")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/dashboard"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-testid="user-menu"`)
	assert.Contains(t, string(body), `data-demo-mode="false"`)
	assert.Contains(t, string(body), `data-testid="campaign-brief"`)
	// Markdown brief is rendered and sanitized, not escaped.
	assert.Contains(t, string(body), "<strong>Hero assets</strong>")
}

func TestServer_LoginRejectedShowsBanner(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})

	resp := login(t, ts, client, "qa@airwave.app", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-testid="login-error"`)
	assert.Contains(t, string(body), "Invalid email or password")
}

func TestServer_DemoLoginIsMarkedOnBody(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})

	resp, err := client.PostForm(ts.URL+"/login/demo", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-demo-mode="true"`)
}

func TestServer_LogoutRevokesSession(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	resp, err := client.PostForm(ts.URL+"/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"))

	resp, err = client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"),
		"dashboard should redirect to login after logout")
}

func TestServer_SelectClientUpdatesStatus(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	resp, err := client.PostForm(ts.URL+"/client", url.Values{"client": {"Globex Retail"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-testid="active-client" class="active-client">Globex Retail`)
}

func TestServer_SelectUnknownClientFails(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	resp, err := client.PostForm(ts.URL+"/client", url.Values{"client": {"Nonesuch"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UploadPreservesPartOrder(t *testing.T) {
	store := assetstore.TestStore(t, "airwave-assets")
	srv, ts, client := newTestServer(t, Options{Store: store})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range []string{"c.jpg", "a.jpg", "b.jpg"} {
		part, err := writer.CreateFormFile("assets", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp, err := client.Post(ts.URL+"/assets/upload", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	names := srv.Library().Names(DefaultClients[0])
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, names,
		"display order must match multipart part order, not sorted order")

	assets := srv.Library().List(DefaultClients[0])
	content, err := srv.Library().Bytes(t.Context(), assets[0].Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-c.jpg"), content)
}

func TestServer_UploadWithoutFilesFails(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no files"))
	require.NoError(t, writer.Close())

	resp, err := client.Post(ts.URL+"/assets/upload", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_GenerationStreamRunsToCompletion(t *testing.T) {
	_, ts, client := newTestServer(t, Options{})
	login(t, ts, client, "qa@airwave.app", "correct-horse")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/generation"
	header := http.Header{}
	base, err := url.Parse(ts.URL)
	require.NoError(t, err)
	for _, cookie := range client.Jar.Cookies(base) {
		header.Add("Cookie", cookie.String())
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	var progress []float64
	for {
		var event generationEvent
		require.NoError(t, conn.ReadJSON(&event))
		if event.Type == "generation_complete" {
			assert.Equal(t, "completed", event.Status)
			break
		}
		require.Equal(t, "generation_progress", event.Type)
		progress = append(progress, event.Progress)
	}
	assert.Equal(t, []float64{20, 40, 60, 80, 100}, progress)
}

func TestServer_GenerationStreamRequiresSession(t *testing.T) {
	_, ts, _ := newTestServer(t, Options{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/generation"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMotivationsFor(t *testing.T) {
	assert.Nil(t, motivationsFor(""))

	got := motivationsFor("Launch the summer range. Focus on urban youth.")
	assert.Equal(t, []string{
		"Belonging: Launch the summer range",
		"Aspiration: Launch the summer range",
		"Urgency: Launch the summer range",
	}, got)
}
