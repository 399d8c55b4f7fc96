package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the detail pane stacks
	// under the list.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the width from which the list pane narrows.
	LayoutExtraWideWidth = 160
)

// Rows taken by chrome around the main content: header, command bar, footer.
const chromeRows = 3

// Log view limits.
const (
	// LogTailLines is how many log lines the log view reads.
	LogTailLines = 500

	// LogRefreshInterval is how often the log view rereads the file.
	LogRefreshInterval = 2 * time.Second
)

// checkoutTimeLayout renders checkout stamps, e.g. "Jan 02 2006 03:04 PM".
const checkoutTimeLayout = "Jan 02 2006 03:04 PM"
