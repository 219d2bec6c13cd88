package poster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"kinotrend/internal/constants"
	"kinotrend/internal/models"
	"kinotrend/pkg/logger"
)

var (
	shadowColor   = image.NewUniform(colorRGB(0, 0, 0))
	titleColor    = image.NewUniform(colorRGB(255, 255, 255))
	metadataColor = image.NewUniform(colorRGB(150, 150, 150))
	customColor   = image.NewUniform(colorRGB(255, 255, 255))
)

// LogoSource looks up and downloads localized logo images.
type LogoSource interface {
	LogoPath(kind models.MediaKind, id int) string
	DownloadImage(url string) ([]byte, error)
}

// Renderer composites poster images onto the template canvas.
type Renderer struct {
	assets     *Assets
	logos      LogoSource
	outputDir  string
	titleFace  font.Face
	infoFace   font.Face
	customFace font.Face
	logger     logger.Logger
}

// NewRenderer creates a Renderer writing into outputDir. Face creation
// fails only on a corrupt font, which is a fatal setup failure.
func NewRenderer(assets *Assets, logos LogoSource, outputDir string, log logger.Logger) (*Renderer, error) {
	titleFace, err := newFace(assets.Font, constants.TitleFontSize)
	if err != nil {
		return nil, err
	}
	infoFace, err := newFace(assets.Font, constants.InfoFontSize)
	if err != nil {
		return nil, err
	}
	customFace, err := newFace(assets.Font, constants.CustomFontSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		assets:     assets,
		logos:      logos,
		outputDir:  outputDir,
		titleFace:  titleFace,
		infoFace:   infoFace,
		customFace: customFace,
		logger:     log,
	}, nil
}

func newFace(fnt *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     constants.FontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %gpt face: %w", size, err)
	}
	return face, nil
}

// Render composites one poster and writes it as <slug>.jpg under the
// output directory. Returns the written file path.
func (r *Renderer) Render(spec models.PosterSpec) (string, error) {
	backdrop, _, err := image.Decode(bytes.NewReader(spec.Backdrop))
	if err != nil {
		return "", fmt.Errorf("failed to decode backdrop: %w", err)
	}
	backdrop = ResizeToHeight(backdrop, constants.BackdropHeight)

	canvas := cloneRGBA(r.assets.Canvas)
	paste(canvas, backdrop, constants.BackdropX, constants.BackdropY, stddraw.Src)
	paste(canvas, r.assets.Overlay, constants.BackdropX, constants.BackdropY, stddraw.Over)
	paste(canvas, r.assets.Watermark, constants.WatermarkX, constants.WatermarkY, stddraw.Over)

	info := MetadataLine(spec.GenreText, spec.Year, spec.InfoText, RatingText(spec.Rating))
	r.drawShadowed(canvas, r.infoFace, constants.InfoX, constants.InfoY, info, metadataColor)

	if !r.drawLogo(canvas, spec) {
		r.drawShadowed(canvas, r.titleFace, constants.TitleX, constants.TitleY, spec.Title, titleColor)
	}

	if spec.CustomText != "" {
		r.drawShadowed(canvas, r.customFace, constants.CustomTextX, constants.CustomTextY, spec.CustomText, customColor)
	}

	return r.save(canvas, spec.Title)
}

// drawLogo fetches, fits and pastes the localized logo above the metadata
// line. Reports whether a logo was drawn; every failure falls back to
// title text.
func (r *Renderer) drawLogo(canvas *image.RGBA, spec models.PosterSpec) bool {
	logoPath := r.logos.LogoPath(spec.Kind, spec.ID)
	if logoPath == "" {
		return false
	}

	data, err := r.logos.DownloadImage(constants.TMDBImageBaseURL + logoPath)
	if err != nil {
		r.logger.Warnf("[Poster] failed to download logo for %s: %v", spec.Title, err)
		return false
	}

	logo, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.Warnf("[Poster] failed to draw logo for %s: %v", spec.Title, err)
		return false
	}

	b := logo.Bounds()
	w, h := FitBox(b.Dx(), b.Dy(), constants.LogoBoxWidth, constants.LogoBoxHeight)
	logo = ResizeTo(logo, w, h)

	paste(canvas, logo, constants.InfoX, constants.InfoY-h-constants.LogoGap, stddraw.Over)
	return true
}

// drawShadowed draws text twice: a black pass offset by the shadow delta,
// then the main pass at the true position.
func (r *Renderer) drawShadowed(dst *image.RGBA, face font.Face, x, y int, text string, main *image.Uniform) {
	drawText(dst, face, x+constants.ShadowOffset, y+constants.ShadowOffset, text, shadowColor)
	drawText(dst, face, x, y, text, main)
}

// drawText renders text with (x, y) as the top-left corner of the line,
// converting to the baseline origin the font drawer expects.
func drawText(dst *image.RGBA, face font.Face, x, y int, text string, src *image.Uniform) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(text)
}

func (r *Renderer) save(canvas *image.RGBA, title string) (string, error) {
	path := filepath.Join(r.outputDir, Slug(title)+".jpg")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, flatten(canvas), nil); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return path, nil
}

// flatten composites the canvas over an opaque black background so the
// JPEG encoder never sees partial alpha.
func flatten(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	stddraw.Draw(dst, dst.Bounds(), image.NewUniform(colorRGB(0, 0, 0)), image.Point{}, stddraw.Src)
	stddraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, stddraw.Over)
	return dst
}

// paste draws src onto dst with its top-left corner at (x, y).
func paste(dst *image.RGBA, src image.Image, x, y int, op stddraw.Op) {
	b := src.Bounds()
	target := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	stddraw.Draw(dst, target, src, b.Min, op)
}

func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Src)
	return dst
}

func colorRGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
