package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand picks the launcher for a login URL. $BROWSER wins when set, for headless and
// remote sessions that forward it.
func browserCommand(goos, url string) (string, []string, error) {
	if b := os.Getenv("BROWSER"); b != "" {
		return b, []string{url}, nil
	}

	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("%w: no browser launcher for %s, open the login URL manually", ErrServiceUnavailable, goos)
	}
}

// OpenBrowser opens the Spotify login URL in the default browser without waiting for it to exit.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(getRuntime(), url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("%w: failed to open browser: %v", ErrServiceUnavailable, err)
	}
	return nil
}
