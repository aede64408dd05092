package pages

import (
	"time"

	"github.com/redbaez/airwave-e2e/internal/harness"
)

// Targets for the assets screen.
var (
	AssetUploadButton = harness.NewTarget("asset upload button",
		harness.TestID("upload-button"),
		harness.Role("button", "Upload assets"),
	)
	AssetDropZone = harness.NewTarget("asset drop zone",
		harness.TestID("asset-dropzone"),
		harness.CSS(".dropzone"),
	)
	AssetList = harness.NewTarget("asset list",
		harness.TestID("asset-list"),
		harness.CSS("ul.assets"),
	)
	UploadCompleteMarker = harness.NewTarget("upload complete marker",
		harness.TestID("upload-complete"),
		harness.Text("Upload complete"),
	)
)

// AssetsPage drives the asset library screen.
type AssetsPage struct {
	session *harness.Session
	opts    harness.ResolveOptions
}

// NewAssetsPage binds the page object to an authenticated session.
func NewAssetsPage(session *harness.Session) *AssetsPage {
	return &AssetsPage{session: session}
}

// Open navigates to the assets screen.
func (p *AssetsPage) Open() error {
	return p.session.Goto("/assets")
}

// UploadFiles delivers files through the native chooser in one atomic
// interaction and blocks until the upload-complete marker appears.
func (p *AssetsPage) UploadFiles(timeout time.Duration, files ...harness.SyntheticFile) error {
	page := p.session.Page()
	if err := harness.UploadViaChooser(page, AssetUploadButton, files, p.opts); err != nil {
		return err
	}
	return harness.WaitForUploadComplete(page, UploadCompleteMarker, timeout)
}

// DropFile delivers one file through the synthetic drag-and-drop path and
// blocks until the upload-complete marker appears.
func (p *AssetsPage) DropFile(timeout time.Duration, file harness.SyntheticFile) error {
	page := p.session.Page()
	if err := harness.UploadViaDrop(page, AssetDropZone, file, p.opts); err != nil {
		return err
	}
	return harness.WaitForUploadComplete(page, UploadCompleteMarker, timeout)
}

// AssetNames returns the displayed asset names in list order.
func (p *AssetsPage) AssetNames() ([]string, error) {
	loc, err := harness.Resolve(p.session.Page(), AssetList, p.opts)
	if err != nil {
		return nil, err
	}
	return loc.Locator("[data-testid='asset-item']").AllTextContents()
}
