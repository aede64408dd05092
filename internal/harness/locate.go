// Package harness implements the reusable browser-session helpers the AIrWAVE
// suite is built on: multi-strategy element lookup, login/session driving,
// synthetic file upload, and WebSocket traffic capture. The helpers hold no
// state beyond the lifetime of one browser page, and every blocking call
// carries an explicit timeout with a typed outcome from internal/errs.
package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/config"
	"github.com/redbaez/airwave-e2e/internal/errs"
	"github.com/redbaez/airwave-e2e/internal/obs"
)

var locateLog = obs.Pkg("harness.locate")

// StrategyKind tags how a locator candidate addresses the DOM.
type StrategyKind string

const (
	// KindCSS is a raw CSS selector.
	KindCSS StrategyKind = "css"
	// KindRole is an ARIA role with an accessible-name filter.
	KindRole StrategyKind = "role"
	// KindText matches by visible text content.
	KindText StrategyKind = "text"
	// KindTestID matches a data-testid attribute.
	KindTestID StrategyKind = "testid"
)

// Strategy is one candidate locator expression for a logical UI target.
type Strategy struct {
	Kind StrategyKind
	// Expr is the CSS selector, ARIA role, text content, or test ID,
	// depending on Kind.
	Expr string
	// Name is the accessible name filter for role strategies.
	Name string
}

// CSS builds a CSS strategy.
func CSS(selector string) Strategy {
	return Strategy{Kind: KindCSS, Expr: selector}
}

// Role builds an ARIA role+name strategy.
func Role(role, name string) Strategy {
	return Strategy{Kind: KindRole, Expr: role, Name: name}
}

// Text builds a visible-text strategy.
func Text(text string) Strategy {
	return Strategy{Kind: KindText, Expr: text}
}

// TestID builds a data-testid strategy.
func TestID(id string) Strategy {
	return Strategy{Kind: KindTestID, Expr: id}
}

// Selector renders the strategy as a Playwright selector-engine expression.
func (s Strategy) Selector() string {
	switch s.Kind {
	case KindRole:
		if s.Name != "" {
			return fmt.Sprintf("role=%s[name=%q]", s.Expr, s.Name)
		}
		return "role=" + s.Expr
	case KindText:
		return fmt.Sprintf("text=%q", s.Expr)
	case KindTestID:
		return fmt.Sprintf("[data-testid=%q]", s.Expr)
	default:
		return s.Expr
	}
}

// Target is one logical UI concept with its ordered fallback strategies.
// The application's markup is unstable across builds, so a single selector is
// never trusted; candidates are tried in order until one matches a visible
// element.
type Target struct {
	Name       string
	Strategies []Strategy
}

// NewTarget builds a Target from an ordered strategy list.
func NewTarget(name string, strategies ...Strategy) Target {
	return Target{Name: name, Strategies: strategies}
}

// LookupError records the candidates tried before a target was declared
// missing. Surfaced to the test author for diagnostics.
type LookupError struct {
	Target    string
	Attempted []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("target %q not found after trying: %s", e.Target, strings.Join(e.Attempted, ", "))
}

// ResolveOptions tunes a single resolution.
type ResolveOptions struct {
	// PerCandidateTimeout bounds the visibility wait for each strategy.
	// Zero means config.DefaultLocateTimeout.
	PerCandidateTimeout time.Duration
}

// Resolve tries the target's strategies in order with a bounded visibility
// wait per candidate and returns the first locator that is present and
// visible. A candidate matching zero elements is a miss, not an error; only
// exhaustion fails, with errs.ElementNotFound wrapping a LookupError that
// carries the attempted expressions.
func Resolve(page playwright.Page, target Target, opts ResolveOptions) (playwright.Locator, error) {
	if len(target.Strategies) == 0 {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("target %q has no locator strategies", target.Name))
	}

	perCandidate := opts.PerCandidateTimeout
	if perCandidate <= 0 {
		perCandidate = config.DefaultLocateTimeout
	}

	attempted := make([]string, 0, len(target.Strategies))
	for _, strategy := range target.Strategies {
		selector := strategy.Selector()
		attempted = append(attempted, selector)

		loc := page.Locator(selector).First()
		err := loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(perCandidate.Milliseconds())),
		})
		if err == nil {
			if len(attempted) > 1 {
				locateLog.Debug("target resolved by fallback",
					"target", target.Name, "winner", selector, "misses", len(attempted)-1)
			}
			return loc, nil
		}
	}

	return nil, errs.Wrap(errs.ElementNotFound,
		fmt.Sprintf("target %q: no candidate matched a visible element", target.Name),
		&LookupError{Target: target.Name, Attempted: attempted})
}

// Click resolves the target and clicks it.
func Click(page playwright.Page, target Target, opts ResolveOptions) error {
	loc, err := Resolve(page, target, opts)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("click %q", target.Name), err)
	}
	return nil
}

// SyntheticClick resolves the target and dispatches a DOM click directly,
// bypassing Playwright's actionability checks. Used where an overlay
// intercepts pointer events (e.g. the user menu under a toast stack).
func SyntheticClick(page playwright.Page, target Target, opts ResolveOptions) error {
	loc, err := Resolve(page, target, opts)
	if err != nil {
		return err
	}
	if _, err := loc.Evaluate("el => el.click()", nil); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("synthetic click %q", target.Name), err)
	}
	return nil
}

// Hover resolves the target and moves the pointer over it.
func Hover(page playwright.Page, target Target, opts ResolveOptions) error {
	loc, err := Resolve(page, target, opts)
	if err != nil {
		return err
	}
	if err := loc.Hover(); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("hover %q", target.Name), err)
	}
	return nil
}

// Fill resolves the target and fills it with value.
func Fill(page playwright.Page, target Target, value string, opts ResolveOptions) error {
	loc, err := Resolve(page, target, opts)
	if err != nil {
		return err
	}
	if err := loc.Fill(value); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("fill %q", target.Name), err)
	}
	return nil
}

// IsVisible reports whether any candidate currently matches a visible element,
// without waiting. Pure observation for state checks.
func IsVisible(page playwright.Page, target Target) bool {
	for _, strategy := range target.Strategies {
		visible, err := page.Locator(strategy.Selector()).First().IsVisible()
		if err == nil && visible {
			return true
		}
	}
	return false
}
