package pages

import (
	"strings"

	"github.com/redbaez/airwave-e2e/internal/harness"
)

// Targets for the dashboard screen.
var (
	CampaignBrief = harness.NewTarget("campaign brief",
		harness.TestID("campaign-brief"),
		harness.CSS("article.brief"),
	)
)

// DashboardPage drives the authenticated landing screen.
type DashboardPage struct {
	session *harness.Session
	opts    harness.ResolveOptions
}

// NewDashboardPage binds the page object to an authenticated session.
func NewDashboardPage(session *harness.Session) *DashboardPage {
	return &DashboardPage{session: session}
}

// Open navigates to the dashboard.
func (p *DashboardPage) Open() error {
	return p.session.Goto("/dashboard")
}

// ActiveClient returns the client name shown in the status element.
func (p *DashboardPage) ActiveClient() (string, error) {
	loc, err := harness.Resolve(p.session.Page(), harness.ActiveClientStatus, p.opts)
	if err != nil {
		return "", err
	}
	text, err := loc.TextContent()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SwitchClient selects another client workspace.
func (p *DashboardPage) SwitchClient(name string) error {
	return p.session.SelectClient(name)
}

// BriefText returns the rendered campaign brief text.
func (p *DashboardPage) BriefText() (string, error) {
	loc, err := harness.Resolve(p.session.Page(), CampaignBrief, p.opts)
	if err != nil {
		return "", err
	}
	return loc.TextContent()
}
