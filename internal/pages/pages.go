// Package pages provides thin page-object facades over the harness helpers:
// named locators and screen-level operations for each AIrWAVE screen. No
// logic lives here beyond composition.
package pages

import (
	"github.com/redbaez/airwave-e2e/internal/harness"
)

// Targets shared across screens.
var (
	NavDashboard = harness.NewTarget("nav dashboard",
		harness.TestID("nav-dashboard"),
		harness.Role("link", "Dashboard"),
	)
	NavAssets = harness.NewTarget("nav assets",
		harness.TestID("nav-assets"),
		harness.Role("link", "Assets"),
	)
	NavMatrix = harness.NewTarget("nav matrix",
		harness.TestID("nav-matrix"),
		harness.Role("link", "Matrix"),
	)
	NavStrategy = harness.NewTarget("nav strategy",
		harness.TestID("nav-strategy"),
		harness.Role("link", "Strategy"),
	)
)
