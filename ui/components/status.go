package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/LeafDesk/ui/styles"
)

func RenderStatus(status, profile string, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}
	if profile != "" {
		statusContent = fmt.Sprintf("[%s] %s", profile, statusContent)
	}

	return statusStyle.Render(statusContent)
}
