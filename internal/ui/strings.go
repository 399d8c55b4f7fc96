package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// formatCheckout renders "name @ Jan 02 2006 03:04 PM" in loc.
func formatCheckout(c *catalog.Checkout, loc *time.Location) string {
	if c == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s @ %s", c.By, c.At.In(loc).Format(checkoutTimeLayout))
}

// availabilityLabel is the badge text for a book.
func availabilityLabel(b catalog.Book) string {
	if b.Available() {
		return "Available"
	}
	return "Checked out"
}

// pluralize returns "1 book" or "n books".
func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
