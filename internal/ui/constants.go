package ui

import "time"

// Window geometry
const (
	WindowWidth  float32 = 880
	WindowHeight float32 = 560

	LabelColumnWidth float32 = 90
	FormatSelectMinW float32 = 320
	LogPanelMinH     float32 = 180
)

// Text fragments
const (
	DashPlaceholder  = "—"
	FormatLabelSep   = " | "
	ItemsPlaceholder = "1,3,5-7"
)

// Log panel limits
const (
	MaxLogLines = 500
)

// Timeouts for background listings started from the window
const (
	ListTimeout    = 2 * time.Minute
	ResolveTimeout = 2 * time.Minute
)

// URL schemes accepted by the form
var allowedSchemes = []string{"http", "https"}
