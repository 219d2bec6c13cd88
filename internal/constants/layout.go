// Package constants defines the poster layout geometry.
//
// All offsets are in pixels on the template canvas. The values come from
// the production poster templates and are not derived at runtime.
package constants

const (
	// Backdrop is resized so its height matches this value; width follows
	// the aspect ratio.
	BackdropHeight = 1500

	// Paste offsets on the base canvas
	BackdropX = 1175
	BackdropY = 0

	WatermarkX = 210
	WatermarkY = 730

	// Text anchors
	TitleX = 200
	TitleY = 420

	InfoX = 210
	InfoY = 650

	CustomTextX = 210
	CustomTextY = 870

	// Shadow pass offset for the two-pass text technique
	ShadowOffset = 2

	// Font sizes in points at 72 DPI
	TitleFontSize  = 190
	InfoFontSize   = 50
	CustomFontSize = 60
	FontDPI        = 72

	// Logo bounding box and its gap above the metadata line
	LogoBoxWidth  = 1000
	LogoBoxHeight = 500
	LogoGap       = 25

	// Year text is cut with the ellipsis-style truncation at this width,
	// which reduces an ISO date to its year.
	YearTextMax = 7
)
