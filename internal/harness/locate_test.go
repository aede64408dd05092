package harness

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestStrategy_SelectorRendering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		strategy Strategy
		want     string
	}{
		{"css passthrough", CSS("#email"), "#email"},
		{"role with name", Role("button", "Sign in"), `role=button[name="Sign in"]`},
		{"role without name", Strategy{Kind: KindRole, Expr: "alert"}, "role=alert"},
		{"text", Text("Log out"), `text="Log out"`},
		{"testid", TestID("login-submit"), `[data-testid="login-submit"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.strategy.Selector(); got != tc.want {
				t.Errorf("Selector() = %q, want %q", got, tc.want)
			}
		})
	}
}

func testLookupError_ListsAttemptsInOrder(t *rapid.T) {
	n := rapid.IntRange(1, 6).Draw(t, "n")
	attempted := make([]string, n)
	for i := range attempted {
		attempted[i] = rapid.StringMatching(`[a-z#.\-]{1,20}`).Draw(t, "selector")
	}

	err := &LookupError{Target: "email field", Attempted: attempted}
	msg := err.Error()

	last := -1
	for _, sel := range attempted {
		idx := strings.Index(msg[last+1:], sel)
		if idx < 0 {
			t.Fatalf("attempted selector %q missing (or out of order) in %q", sel, msg)
		}
		last += 1 + idx
	}
}

func TestLookupError_ListsAttemptsInOrder(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testLookupError_ListsAttemptsInOrder)
}

func TestCapturedMessage_Decoded(t *testing.T) {
	t.Parallel()

	msg := CapturedMessage{Data: `{"type":"generation_progress","progress":40}`}
	payload, err := msg.Decoded()
	if err != nil {
		t.Fatalf("Decoded: %v", err)
	}
	if payload["type"] != "generation_progress" {
		t.Errorf("type = %v", payload["type"])
	}
	if payload["progress"] != float64(40) {
		t.Errorf("progress = %v", payload["progress"])
	}

	if _, err := (CapturedMessage{Data: "not json"}).Decoded(); err == nil {
		t.Error("expected decode error for non-JSON payload")
	}
}

func TestDecodeEntry(t *testing.T) {
	t.Parallel()

	msg, ok := decodeEntry(map[string]any{"ts": float64(1700000000000), "data": `{"type":"a"}`})
	if !ok {
		t.Fatal("decodeEntry rejected a valid entry")
	}
	if msg.Data != `{"type":"a"}` {
		t.Errorf("Data = %q", msg.Data)
	}
	if msg.Timestamp.UnixMilli() != 1700000000000 {
		t.Errorf("Timestamp = %v", msg.Timestamp)
	}

	if _, ok := decodeEntry("not an object"); ok {
		t.Error("decodeEntry accepted a non-object entry")
	}
}

func TestJPEGFixture_NamesAreDistinctPayloads(t *testing.T) {
	t.Parallel()

	a := JPEGFixture("a.jpg")
	b := JPEGFixture("b.jpg")
	if a.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q", a.MimeType)
	}
	if string(a.Payload) == string(b.Payload) {
		t.Error("fixtures for different names should differ")
	}
	if a.Payload[0] != 0xFF || a.Payload[1] != 0xD8 {
		t.Error("payload should start with a JPEG marker")
	}
}
