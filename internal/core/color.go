package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors, named by what they paint in the tunnel view.
const (
	ColorDefault Color = iota
	ColorWall          // Plain solid lane
	ColorSpinner       // Rotating blade overlay
	ColorPulse         // Throbbing wall overlay
	ColorShard         // Crystal spike overlay
	ColorLaser         // Beam gate overlay
	ColorOpen          // Open lane floor
	ColorSafe          // Guaranteed-open lane hint
	ColorPickup        // Shard collectible
	ColorCore          // Core collectible
	ColorRunner        // Player marker
	ColorHUD           // Status text
	ColorDim           // Secondary text and frame
	ColorDanger        // Death banner
)

// ANSI returns the 256-color code string used by the terminal renderer.
// The default color has no code.
func (c Color) ANSI() string {
	switch c {
	case ColorWall:
		return "240"
	case ColorSpinner:
		return "208"
	case ColorPulse:
		return "13"
	case ColorShard:
		return "14"
	case ColorLaser:
		return "9"
	case ColorOpen:
		return "236"
	case ColorSafe:
		return "10"
	case ColorPickup:
		return "11"
	case ColorCore:
		return "201"
	case ColorRunner:
		return "15"
	case ColorHUD:
		return "12"
	case ColorDim:
		return "245"
	case ColorDanger:
		return "196"
	default:
		return ""
	}
}
