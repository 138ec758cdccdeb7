package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Sidebar colors
const (
	ColorActiveItem Color = "212" // Pink - active item marker
	ColorBorder     Color = "238" // Dark gray - sidebar borders
	ColorFocused    Color = "99"  // Purple - focused sidebar border
	ColorInsetBg    Color = "235" // Near black - inset panel background
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorClosed    Color = "1"   // Red
	ColorHelpGroup Color = "141" // Purple
	ColorOpen      Color = "2"   // Green
	ColorShortcut  Color = "226" // Yellow
)
