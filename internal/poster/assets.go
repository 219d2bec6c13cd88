package poster

import (
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/image/font/opentype"

	"kinotrend/internal/constants"
	"kinotrend/pkg/logger"
)

// Assets holds the fixed template layers and the font. Missing assets are
// a fatal setup failure: there is no degraded rendering mode.
type Assets struct {
	Canvas    image.Image
	Overlay   image.Image
	Watermark image.Image
	Font      *opentype.Font
}

// LoadAssets reads the template layers and the font from dir. The font is
// downloaded once when absent; the template layers must already exist.
func LoadAssets(dir string, log logger.Logger) (*Assets, error) {
	canvas, err := loadImage(filepath.Join(dir, constants.CanvasFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load base canvas: %w", err)
	}

	overlay, err := loadImage(filepath.Join(dir, constants.OverlayFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay: %w", err)
	}

	watermark, err := loadImage(filepath.Join(dir, constants.WatermarkFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark: %w", err)
	}

	fnt, err := loadFont(filepath.Join(dir, constants.FontFileName), log)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	return &Assets{
		Canvas:    canvas,
		Overlay:   overlay,
		Watermark: watermark,
		Font:      fnt,
	}, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// loadFont parses the TTF at path, fetching it first when missing.
func loadFont(path string, log logger.Logger) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = downloadFont(path, log)
	}
	if err != nil {
		return nil, err
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return fnt, nil
}

func downloadFont(path string, log logger.Logger) ([]byte, error) {
	client := &http.Client{Timeout: constants.ImageDownloadTimeout}

	resp, err := client.Get(constants.FontDownloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("font download error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read font body: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save font: %w", err)
	}

	log.Infof("[Poster] %s saved", constants.FontFileName)
	return data, nil
}

// ResetOutputDir clears and recreates the poster output directory so a
// run never leaves stale files behind.
func ResetOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
