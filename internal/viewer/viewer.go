// Package viewer builds deep links into the external imaging viewer and
// optionally opens them in a browser.
package viewer

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// URL returns the viewer deep link for a study, e.g.
// http://localhost:8042/ohif/viewer?StudyInstanceUIDs=1.2.840....
func URL(base, studyInstanceUID string) string {
	q := url.Values{}
	q.Set("StudyInstanceUIDs", studyInstanceUID)
	return fmt.Sprintf("%s?%s", base, q.Encode())
}

// Launcher opens a viewer URL in some browsing context.
type Launcher interface {
	Open(url string) error
}

// NopLauncher discards the URL. Used on the server side and in tests.
type NopLauncher struct{}

func (NopLauncher) Open(string) error { return nil }

// BrowserLauncher opens the URL with the platform's default browser.
type BrowserLauncher struct{}

func (BrowserLauncher) Open(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open viewer: %w", err)
	}
	return nil
}
