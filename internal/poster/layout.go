package poster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"kinotrend/internal/constants"
)

// Runtime unit labels, matching the locale of the generated catalogs.
const (
	hoursUnit   = "ч"
	minutesUnit = "мин"
)

const metadataSeparator = "  •  "

// ResizeToHeight scales an image so its height equals height exactly,
// width following the aspect ratio.
func ResizeToHeight(src image.Image, height int) image.Image {
	b := src.Bounds()
	width := int(math.Round(float64(b.Dx()) * float64(height) / float64(b.Dy())))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// FitBox shrinks (w, h) to fit within (boxW, boxH) preserving aspect
// ratio: width-first, then height-corrected when the scaled height
// overflows the box.
func FitBox(w, h, boxW, boxH int) (int, int) {
	aspect := float64(w) / float64(h)

	newW := boxW
	newH := int(float64(newW) / aspect)
	if newH > boxH {
		newH = boxH
		newW = int(float64(newH) * aspect)
	}
	return newW, newH
}

// ResizeTo scales an image to the exact target size.
func ResizeTo(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// Truncate cuts a string to max runes, dropping three extra runes to
// leave room for an ellipsis. Shorter strings pass through unchanged.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-3])
	}
	return s
}

// TruncateRunes cuts a string to at most max runes.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// FormatRuntime renders a runtime in minutes as hours and minutes, or
// "N/A" when the runtime is unknown.
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d%s %d%s", minutes/60, hoursUnit, minutes%60, minutesUnit)
}

// SeasonsText renders a season count, pluralized on the count.
func SeasonsText(n int) string {
	if n == 1 {
		return "1 Season"
	}
	return fmt.Sprintf("%d Seasons", n)
}

// RatingText renders the branded rating segment of the metadata line.
func RatingText(rating float64) string {
	return fmt.Sprintf("%s: %.1f", constants.RatingBrand, rating)
}

// YearText reduces an ISO release date to its year.
func YearText(date string) string {
	return Truncate(date, constants.YearTextMax)
}

// MetadataLine joins the genre, year, info and rating segments with
// middle-dot separators.
func MetadataLine(genreText, yearText, infoText, ratingText string) string {
	return genreText + metadataSeparator + yearText + metadataSeparator +
		infoText + metadataSeparator + ratingText
}
