package safe

import (
	"log/slog"
	"runtime/debug"
	"strings"
)

// Run executes fn and logs a recovered panic with a trimmed stack instead of
// letting a background goroutine take the process down.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", formatStack(3)),
			)
		}
	}()

	fn()
}

func formatStack(skipFrames int) string {
	lines := strings.Split(string(debug.Stack()), "\n")

	formatted := []string{"Stack trace:"}
	if len(lines) > 0 {
		formatted = append(formatted, "  "+lines[0]) // goroutine header
	}
	for i := skipFrames; i < len(lines) && i < skipFrames+20; i++ {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			formatted = append(formatted, "  "+line)
		}
	}
	if len(lines) > skipFrames+20 {
		formatted = append(formatted, "  ... (truncated)")
	}
	return strings.Join(formatted, "\n")
}
