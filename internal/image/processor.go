// Package image prepares photos for publishing: web-sized re-encoding,
// cover thumbnails, and EXIF extraction for the lightbox.
package image

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/h2non/bimg"

	"github.com/gustafedn/atelier/internal/collection"
)

// ProcessorConfig holds configuration for image processing.
type ProcessorConfig struct {
	// MaxWidth limits the optimized image width; narrower inputs pass
	// through at their original size.
	MaxWidth int
	// Quality for the optimized JPEG encoding (1-100)
	Quality int
	// CoverWidth is the width of the collection cover thumbnail
	CoverWidth int
	// CoverQuality for the cover JPEG encoding (1-100)
	CoverQuality int
}

// DefaultConfig returns the publishing defaults for portfolio photos.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		MaxWidth:     2000,
		Quality:      85,
		CoverWidth:   600,
		CoverQuality: 80,
	}
}

// Processor handles image optimization and re-encoding.
type Processor struct {
	config ProcessorConfig
}

// NewProcessor creates a new image processor with the given config.
func NewProcessor(config ProcessorConfig) *Processor {
	return &Processor{config: config}
}

// Optimize re-encodes a photo for the web: JPEG output, capped at
// MaxWidth, metadata stripped. EXIF worth keeping is extracted separately
// before this runs.
func (p *Processor) Optimize(input []byte) ([]byte, error) {
	return p.encode(input, p.config.MaxWidth, p.config.Quality)
}

// Cover renders the collection cover thumbnail from the image bytes.
func (p *Processor) Cover(input []byte) ([]byte, error) {
	return p.encode(input, p.config.CoverWidth, p.config.CoverQuality)
}

func (p *Processor) encode(input []byte, maxWidth, quality int) ([]byte, error) {
	img := bimg.NewImage(input)
	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	options := bimg.Options{
		Type:          bimg.JPEG,
		Quality:       quality,
		StripMetadata: true,
	}
	if maxWidth > 0 && size.Width > maxWidth {
		options.Width = maxWidth
	}

	output, err := img.Process(options)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}
	return output, nil
}

// ExtractEXIF reads the camera metadata shown in the lightbox. Fields the
// file does not carry stay empty; an image with no EXIF at all returns nil.
func ExtractEXIF(input []byte) (*collection.EXIF, error) {
	metadata, err := bimg.NewImage(input).Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read image metadata: %w", err)
	}

	raw := metadata.EXIF
	out := &collection.EXIF{
		Camera:      cameraName(raw.Make, raw.Model),
		Aperture:    formatAperture(raw.FNumber),
		Shutter:     formatShutter(raw.ExposureTime),
		ISO:         raw.ISOSpeedRatings,
		FocalLength: formatFocalLength(raw.FocalLength),
		Date:        formatDate(raw.DateTimeOriginal),
	}
	if *out == (collection.EXIF{}) {
		return nil, nil
	}
	return out, nil
}

// cameraName joins make and model, dropping a make that the model string
// already repeats (Canon writes "Canon" into both).
func cameraName(maker, model string) string {
	maker = strings.TrimSpace(maker)
	model = strings.TrimSpace(model)
	if model == "" {
		return maker
	}
	if maker == "" || strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)) {
		return model
	}
	return maker + " " + model
}

// formatAperture renders an EXIF rational like "28/10" as "f/2.8".
func formatAperture(raw string) string {
	v, ok := parseRational(raw)
	if !ok || v <= 0 {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return "f/" + s
}

// formatShutter renders an exposure time as "1/250s" or "2s".
func formatShutter(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	v, ok := parseRational(raw)
	if !ok || v <= 0 {
		return ""
	}
	if v < 1 {
		// Keep the photographic fraction form
		if num, den, ok := splitRational(raw); ok && num == 1 {
			return fmt.Sprintf("1/%ds", den)
		}
		return fmt.Sprintf("1/%ds", int(1/v+0.5))
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + "s"
}

// formatFocalLength renders a focal length rational like "56/1" as "56mm".
func formatFocalLength(raw string) string {
	v, ok := parseRational(raw)
	if !ok || v <= 0 {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + "mm"
}

// formatDate converts the EXIF timestamp "2006:01:02 15:04:05" to the
// date-only "2006-01-02" form.
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return ""
	}
	date := raw[:10]
	date = strings.ReplaceAll(date, ":", "-")
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return ""
	}
	return date
}

// parseRational evaluates "num/den" or a plain decimal string.
func parseRational(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if num, den, ok := splitRational(raw); ok {
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitRational(raw string) (num, den int, ok bool) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	den, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return num, den, true
}
