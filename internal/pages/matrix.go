package pages

import (
	"time"

	"github.com/redbaez/airwave-e2e/internal/harness"
)

// Targets for the campaign matrix screen.
var (
	GenerateButton = harness.NewTarget("generate button",
		harness.TestID("generate-button"),
		harness.Role("button", "Generate"),
	)
	GenerationStatus = harness.NewTarget("generation status",
		harness.TestID("generation-status"),
		harness.CSS(".generation-status"),
	)
	GenerationCompleteMarker = harness.NewTarget("generation complete marker",
		harness.TestID("generation-complete"),
		harness.Text("Generation complete"),
	)
)

// MatrixPage drives the campaign matrix and its render-generation flow.
// Server-pushed progress is read from the captured transport, not the DOM,
// which may not reflect every intermediate state.
type MatrixPage struct {
	session *harness.Session
	capture *harness.Capture
	opts    harness.ResolveOptions
}

// NewMatrixPage binds the page object to a session and its transport capture.
// The capture must have been installed before the page navigated.
func NewMatrixPage(session *harness.Session, capture *harness.Capture) *MatrixPage {
	return &MatrixPage{session: session, capture: capture}
}

// Open navigates to the matrix screen.
func (p *MatrixPage) Open() error {
	return p.session.Goto("/matrix")
}

// StartGeneration clicks the generate control; the application opens its
// realtime transport in response.
func (p *MatrixPage) StartGeneration() error {
	return harness.Click(p.session.Page(), GenerateButton, p.opts)
}

// WaitForProgress blocks until generation progress reaches threshold.
func (p *MatrixPage) WaitForProgress(threshold float64, timeout time.Duration) (harness.CapturedMessage, error) {
	return p.capture.WaitForProgress(threshold, timeout)
}

// WaitForCompletion blocks until the generation completes on the wire.
func (p *MatrixPage) WaitForCompletion(timeout time.Duration) (harness.CapturedMessage, error) {
	return p.capture.WaitForCompletion(timeout)
}

// Capture exposes the transport capture for direct log assertions.
func (p *MatrixPage) Capture() *harness.Capture {
	return p.capture
}
