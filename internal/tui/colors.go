package tui

// Color constants for lifetrack TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, user input
	ColorSecondaryText = "#B1B8C7" // Subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Inactive tasks and domains
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Selected row border, streak
	ColorAccentBright = "#A78BFA" // Headers, domain names

	// State Colors
	ColorError   = "#EF4444" // Failed changes
	ColorSuccess = "#22C55E" // Completed tasks, qualifying days
	ColorWarning = "#F59E0B" // Pending changes
)
