package harness

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/config"
	"github.com/redbaez/airwave-e2e/internal/errs"
)

// SyntheticFile is an in-memory named byte buffer with a declared media type,
// constructed to simulate a user-selected upload. Consumed exactly once.
type SyntheticFile struct {
	Name     string
	MimeType string
	Payload  []byte
}

// JPEGFixture returns a small synthetic JPEG-flavored file. The payload is
// not a decodable image; the application only inspects name and media type.
func JPEGFixture(name string) SyntheticFile {
	return SyntheticFile{
		Name:     name,
		MimeType: "image/jpeg",
		Payload:  append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte(name)...),
	}
}

// UploadViaChooser delivers files through the native file-chooser path: the
// chooser expectation is registered before the trigger is clicked, then all
// files are supplied in one atomic interaction. Ordering is preserved; the
// application relies on array order for display.
func UploadViaChooser(page playwright.Page, trigger Target, files []SyntheticFile, opts ResolveOptions) error {
	if len(files) == 0 {
		return errs.New(errs.InvalidArgument, "no files to upload")
	}

	loc, err := Resolve(page, trigger, opts)
	if err != nil {
		return err
	}

	chooser, err := page.ExpectFileChooser(func() error {
		return loc.Click()
	})
	if err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("file chooser did not open for %q", trigger.Name), err)
	}

	inputFiles := make([]playwright.InputFile, len(files))
	for i, f := range files {
		inputFiles[i] = playwright.InputFile{
			Name:     f.Name,
			MimeType: f.MimeType,
			Buffer:   f.Payload,
		}
	}
	if err := chooser.SetFiles(inputFiles); err != nil {
		return errs.Wrap(errs.Internal, "set files on chooser", err)
	}
	return nil
}

// UploadViaDrop bypasses the operating system dialog entirely: the file is
// reconstructed inside the page and bound to a synthetic drop event
// dispatched at the drop target.
func UploadViaDrop(page playwright.Page, dropTarget Target, file SyntheticFile, opts ResolveOptions) error {
	loc, err := Resolve(page, dropTarget, opts)
	if err != nil {
		return err
	}

	arg := map[string]any{
		"name": file.Name,
		"mime": file.MimeType,
		"b64":  base64.StdEncoding.EncodeToString(file.Payload),
	}
	_, err = loc.Evaluate(`(el, arg) => {
		const bytes = Uint8Array.from(atob(arg.b64), c => c.charCodeAt(0));
		const file = new File([bytes], arg.name, { type: arg.mime });
		const dt = new DataTransfer();
		dt.items.add(file);
		el.dispatchEvent(new DragEvent('dragover', { bubbles: true, dataTransfer: dt }));
		el.dispatchEvent(new DragEvent('drop', { bubbles: true, dataTransfer: dt }));
	}`, arg)
	if err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("synthetic drop on %q", dropTarget.Name), err)
	}
	return nil
}

// WaitForUploadComplete blocks until the upload-complete marker appears.
// Upload delivery completes when the browser accepts the file into the
// control; the network upload is observed separately through this marker.
func WaitForUploadComplete(page playwright.Page, marker Target, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = config.DefaultActionTimeout
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if IsVisible(page, marker) {
			return nil
		}
		time.Sleep(config.DefaultPollInterval)
	}
	return errs.New(errs.UploadTimeout,
		fmt.Sprintf("upload-complete marker %q did not appear within %s", marker.Name, timeout))
}
