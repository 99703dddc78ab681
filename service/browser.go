package service

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens url with the platform's default handler without waiting
// for the browser to exit
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "linux", "freebsd", "openbsd":
		for _, opener := range []string{"xdg-open", "gnome-open", "kde-open"} {
			if _, err := exec.LookPath(opener); err == nil {
				name, args = opener, []string{url}
				break
			}
		}
		if name == "" {
			return fmt.Errorf("no browser opener found on %s", runtime.GOOS)
		}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
