package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// LocalURL 本机访问地址
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

func browserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		// rundll32 在 Windows 7 上也可用
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// OpenBrowser 打开默认浏览器，主方式失败时尝试常见浏览器
func OpenBrowser(url string) error {
	err := browserCommand(url).Start()
	if err == nil {
		return nil
	}

	var fallbacks []string
	switch runtime.GOOS {
	case "windows":
		fallbacks = []string{"explorer"}
	case "linux":
		fallbacks = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
	}
	for _, name := range fallbacks {
		if exec.Command(name, url).Start() == nil {
			return nil
		}
	}
	return fmt.Errorf("open browser: %w", err)
}
