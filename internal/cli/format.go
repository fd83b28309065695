package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate formats a date.
func FormatDate(t time.Time) string {
	return t.Local().Format("02-Jan-2006")
}

// FormatDateTime formats a datetime.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("02-Jan-2006 15:04")
}

// truncate shortens a string to maxLen with an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatTags joins a tag set for display.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

// ShortID returns the first segment of a UUID for compact display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// FormatCount formats a count with a singular/plural noun.
func FormatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
