package harness

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/config"
	"github.com/redbaez/airwave-e2e/internal/errs"
)

// captureScript wraps the page's WebSocket constructor before any application
// code runs. Lifecycle events are mirrored into a page-global buffer; the
// harness process and the page's script do not share memory, so all reads go
// through serialized Evaluate calls.
const captureScript = `(() => {
	if (window.__awCapture) return;
	const capture = { connected: false, sockets: 0, messages: [], closes: [], errors: [] };
	window.__awCapture = capture;
	const Native = window.WebSocket;
	if (!Native) return;
	function Wrapped(url, protocols) {
		const ws = protocols === undefined ? new Native(url) : new Native(url, protocols);
		capture.sockets += 1;
		ws.addEventListener('open', () => { capture.connected = true; });
		ws.addEventListener('message', (ev) => {
			capture.messages.push({ ts: Date.now(), data: typeof ev.data === 'string' ? ev.data : '[binary]' });
		});
		ws.addEventListener('close', (ev) => {
			capture.connected = false;
			capture.closes.push({ ts: Date.now(), code: ev.code });
		});
		ws.addEventListener('error', () => { capture.errors.push({ ts: Date.now() }); });
		return ws;
	}
	Wrapped.prototype = Native.prototype;
	Wrapped.CONNECTING = Native.CONNECTING;
	Wrapped.OPEN = Native.OPEN;
	Wrapped.CLOSING = Native.CLOSING;
	Wrapped.CLOSED = Native.CLOSED;
	window.WebSocket = Wrapped;
})();`

// CapturedMessage is one intercepted transport frame in wire arrival order.
type CapturedMessage struct {
	Timestamp time.Time
	Data      string
}

// Decoded parses the raw payload as JSON.
func (m CapturedMessage) Decoded() (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(m.Data), &payload); err != nil {
		return nil, fmt.Errorf("decode captured message: %w", err)
	}
	return payload, nil
}

// Capture observes the realtime transport of one page. Buffers live in the
// page's execution context for the lifetime of the page and are append-only
// until ClearMessages.
type Capture struct {
	page         playwright.Page
	pollInterval time.Duration
}

// InstallCapture registers the interception wrapper as a page init script.
// Must be called before the page navigates to application code; transports
// opened before installation are not observed.
func InstallCapture(page playwright.Page) (*Capture, error) {
	err := page.AddInitScript(playwright.Script{
		Content: playwright.String(captureScript),
	})
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "install websocket capture script", err)
	}
	return &Capture{page: page, pollInterval: config.DefaultPollInterval}, nil
}

// WaitForConnection blocks until a transport reports open, or fails with
// ConnectionTimeout at the bound. Returns as soon as the flag is observed.
func (c *Capture) WaitForConnection(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		result, err := c.page.Evaluate(`() => Boolean(window.__awCapture && window.__awCapture.connected)`)
		if err != nil {
			return errs.Wrap(errs.Internal, "read connection flag", err)
		}
		if connected, ok := result.(bool); ok && connected {
			return nil
		}
		if !time.Now().Before(deadline) {
			return errs.New(errs.ConnectionTimeout,
				fmt.Sprintf("no transport connection within %s", timeout))
		}
		time.Sleep(c.pollInterval)
	}
}

// WaitForMessage polls the log for an entry whose decoded payload has the
// given type discriminator. Empty msgType matches any message.
func (c *Capture) WaitForMessage(msgType string, timeout time.Duration) (CapturedMessage, error) {
	finder := `(t) => {
		const c = window.__awCapture;
		if (!c) return null;
		for (const m of c.messages) {
			if (!t) return m;
			try {
				const p = JSON.parse(m.data);
				if (p && p.type === t) return m;
			} catch (e) {}
		}
		return null;
	}`
	predicate := "any message"
	if msgType != "" {
		predicate = fmt.Sprintf("message of type %q", msgType)
	}
	return c.pollForMatch(finder, msgType, predicate, timeout)
}

// WaitForProgress blocks until a generation_progress payload reaches the
// threshold (0..100).
func (c *Capture) WaitForProgress(threshold float64, timeout time.Duration) (CapturedMessage, error) {
	finder := `(th) => {
		const c = window.__awCapture;
		if (!c) return null;
		for (const m of c.messages) {
			try {
				const p = JSON.parse(m.data);
				if (p && p.type === 'generation_progress' && typeof p.progress === 'number' && p.progress >= th) return m;
			} catch (e) {}
		}
		return null;
	}`
	return c.pollForMatch(finder, threshold, fmt.Sprintf("generation progress >= %v", threshold), timeout)
}

// WaitForCompletion blocks until a completion payload arrives, by type or by
// a status field, matching the shapes the application emits.
func (c *Capture) WaitForCompletion(timeout time.Duration) (CapturedMessage, error) {
	finder := `() => {
		const c = window.__awCapture;
		if (!c) return null;
		for (const m of c.messages) {
			try {
				const p = JSON.parse(m.data);
				if (p && (p.type === 'generation_complete' || p.status === 'completed')) return m;
			} catch (e) {}
		}
		return null;
	}`
	return c.pollForMatch(finder, nil, "generation completion", timeout)
}

func (c *Capture) pollForMatch(finder string, arg any, predicate string, timeout time.Duration) (CapturedMessage, error) {
	deadline := time.Now().Add(timeout)
	for {
		result, err := c.page.Evaluate(finder, arg)
		if err != nil {
			return CapturedMessage{}, errs.Wrap(errs.Internal, "poll captured messages", err)
		}
		if msg, ok := decodeEntry(result); ok {
			return msg, nil
		}
		if !time.Now().Before(deadline) {
			return CapturedMessage{}, errs.New(errs.MessageTimeout,
				fmt.Sprintf("no captured message matched %s within %s", predicate, timeout))
		}
		time.Sleep(c.pollInterval)
	}
}

// Messages returns the full captured log in arrival order, non-destructively.
func (c *Capture) Messages() ([]CapturedMessage, error) {
	result, err := c.page.Evaluate(`() => window.__awCapture ? window.__awCapture.messages : []`)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "read captured messages", err)
	}
	entries, ok := result.([]any)
	if !ok {
		return nil, nil
	}
	messages := make([]CapturedMessage, 0, len(entries))
	for _, entry := range entries {
		if msg, ok := decodeEntry(entry); ok {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// LastMessage returns the final captured entry, matching wire arrival order.
// The second return is false when the log is empty.
func (c *Capture) LastMessage() (CapturedMessage, bool, error) {
	messages, err := c.Messages()
	if err != nil {
		return CapturedMessage{}, false, err
	}
	if len(messages) == 0 {
		return CapturedMessage{}, false, nil
	}
	return messages[len(messages)-1], true, nil
}

// ClearMessages resets the log to empty without tearing down interception.
func (c *Capture) ClearMessages() error {
	_, err := c.page.Evaluate(`() => { if (window.__awCapture) window.__awCapture.messages = []; }`)
	if err != nil {
		return errs.Wrap(errs.Internal, "clear captured messages", err)
	}
	return nil
}

func decodeEntry(raw any) (CapturedMessage, bool) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return CapturedMessage{}, false
	}
	data, _ := entry["data"].(string)
	msg := CapturedMessage{Data: data}
	switch ts := entry["ts"].(type) {
	case float64:
		msg.Timestamp = time.UnixMilli(int64(ts))
	case int:
		msg.Timestamp = time.UnixMilli(int64(ts))
	}
	return msg, true
}
