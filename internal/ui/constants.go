package ui

import "time"

// Terminal-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconInfo    = "›"
	IconSuccess = "✔"
	IconWarn    = "!"
	IconError   = "❌"
	IconFile    = "📄"
	IconVideo   = "🎬"
	IconMusic   = "🎵"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	ErrorPrefix        = "Error: "
)

// Color palette
const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorWarn    = "#FFB000"
	colorError   = "#FF0000"
	colorInfo    = "#626262"
)

// Progress bar sizing and behavior
const (
	ProgressBarWidth    = 30
	ProgressThrottle    = 65 * time.Millisecond
	MaxDescriptionWidth = 40
)
