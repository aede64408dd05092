package pages

import (
	"github.com/redbaez/airwave-e2e/internal/harness"
)

// Targets for the strategy screen's content-generation form.
var (
	BriefInput = harness.NewTarget("brief input",
		harness.TestID("brief-input"),
		harness.CSS("textarea[name='brief']"),
	)
	GenerateMotivations = harness.NewTarget("generate motivations",
		harness.TestID("generate-motivations"),
		harness.Role("button", "Generate motivations"),
	)
	MotivationCards = harness.NewTarget("motivation cards",
		harness.TestID("motivation-list"),
		harness.CSS(".motivations"),
	)
)

// StrategyPage drives the strategy screen's content generation form.
type StrategyPage struct {
	session *harness.Session
	opts    harness.ResolveOptions
}

// NewStrategyPage binds the page object to an authenticated session.
func NewStrategyPage(session *harness.Session) *StrategyPage {
	return &StrategyPage{session: session}
}

// Open navigates to the strategy screen.
func (p *StrategyPage) Open() error {
	return p.session.Goto("/strategy")
}

// GenerateFromBrief fills the brief and submits the generation form.
func (p *StrategyPage) GenerateFromBrief(brief string) error {
	page := p.session.Page()
	if err := harness.Fill(page, BriefInput, brief, p.opts); err != nil {
		return err
	}
	return harness.Click(page, GenerateMotivations, p.opts)
}

// MotivationTitles returns the generated motivation card titles in order.
func (p *StrategyPage) MotivationTitles() ([]string, error) {
	loc, err := harness.Resolve(p.session.Page(), MotivationCards, p.opts)
	if err != nil {
		return nil, err
	}
	return loc.Locator("[data-testid='motivation-card'] h3").AllTextContents()
}
