// Package uiscan statically scans markup sources for interactive elements
// that the suite's locator chains cannot address reliably: no data-testid and
// no accessible label. Findings feed the accessibility audit and the uiscan
// CLI.
package uiscan

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Finding is one unaddressable interactive element.
type Finding struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Tag     string `json:"tag"`
	Snippet string `json:"snippet"`
}

// Report is the scan result for one tree.
type Report struct {
	Root     string    `json:"root"`
	Scanned  int       `json:"scanned_files"`
	Findings []Finding `json:"findings"`
}

// Clean reports whether the scan found nothing.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0
}

// markupExtensions are the file types the scanner inspects. Go files are
// included because the fixture keeps its templates in string constants.
var markupExtensions = map[string]bool{
	".html":   true,
	".tmpl":   true,
	".gohtml": true,
	".go":     true,
}

// interactiveTag matches the opening tag of an element a user interacts with.
// [^>]* keeps the match inside one tag even when attributes span lines.
var interactiveTag = regexp.MustCompile(`(?s)<(button|input|select|textarea|a)\b[^>]*>`)

// addressable attributes, checked inside the matched tag text.
var addressableAttrs = []string{"data-testid=", "aria-label=", "aria-labelledby="}

// hidden inputs are not user-interactive.
var hiddenInput = regexp.MustCompile(`type=["']?hidden`)

// images need alt text even though they are not interactive.
var imgTag = regexp.MustCompile(`(?s)<img\b[^>]*>`)

// ScanSource scans one source blob. name is used in findings.
func ScanSource(name string, src []byte) []Finding {
	var findings []Finding
	for _, idx := range interactiveTag.FindAllSubmatchIndex(src, -1) {
		tag := string(src[idx[0]:idx[1]])
		tagName := string(src[idx[2]:idx[3]])

		if tagName == "input" && hiddenInput.MatchString(tag) {
			continue
		}
		if hasAddressableAttr(tag) {
			continue
		}

		findings = append(findings, Finding{
			File:    name,
			Line:    1 + strings.Count(string(src[:idx[0]]), "\n"),
			Tag:     tagName,
			Snippet: snippet(tag),
		})
	}
	for _, idx := range imgTag.FindAllIndex(src, -1) {
		tag := string(src[idx[0]:idx[1]])
		if strings.Contains(tag, "alt=") {
			continue
		}
		findings = append(findings, Finding{
			File:    name,
			Line:    1 + strings.Count(string(src[:idx[0]]), "\n"),
			Tag:     "img",
			Snippet: snippet(tag),
		})
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })
	return findings
}

func hasAddressableAttr(tag string) bool {
	for _, attr := range addressableAttrs {
		if strings.Contains(tag, attr) {
			return true
		}
	}
	return false
}

func snippet(tag string) string {
	flat := strings.Join(strings.Fields(tag), " ")
	if len(flat) > 120 {
		flat = flat[:117] + "..."
	}
	return flat
}

// ScanTree walks root and scans every markup source under it.
func ScanTree(root string) (*Report, error) {
	report := &Report{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if !markupExtensions[filepath.Ext(path)] || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		report.Scanned++
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		report.Findings = append(report.Findings, ScanSource(rel, src)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(report.Findings, func(i, j int) bool {
		if report.Findings[i].File != report.Findings[j].File {
			return report.Findings[i].File < report.Findings[j].File
		}
		return report.Findings[i].Line < report.Findings[j].Line
	})
	return report, nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
