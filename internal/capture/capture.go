// ABOUTME: Screenshot payload decoding and half-block terminal rendering
// ABOUTME: Maps each terminal pixel through the viewer's zoom and pan transform

package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // registers GIF decoding
	_ "image/jpeg" // registers JPEG decoding
	_ "image/png"  // registers PNG decoding
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/markalston/autoclick-dashboard/internal/viewer"
)

// ErrEmpty is returned for an empty payload
var ErrEmpty = errors.New("empty screenshot payload")

// Payload is a decoded screenshot
type Payload struct {
	MediaType string
	Data      []byte
}

// Extension returns a file extension for the media type
func (p Payload) Extension() string {
	switch p.MediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// Parse decodes a data URI ("data:image/png;base64,...") or bare base64
func Parse(s string) (Payload, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Payload{}, ErrEmpty
	}

	mediaType := "image/png"
	encoded := s
	if strings.HasPrefix(s, "data:") {
		meta, rest, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return Payload{}, fmt.Errorf("malformed data URI")
		}
		if !strings.HasSuffix(meta, ";base64") {
			return Payload{}, fmt.Errorf("unsupported data URI encoding %q", meta)
		}
		if mt := strings.TrimSuffix(meta, ";base64"); mt != "" {
			mediaType = mt
		}
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// some encoders drop padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return Payload{}, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return Payload{MediaType: mediaType, Data: data}, nil
}

// Decode parses the payload and decodes it into an image
func Decode(s string) (image.Image, error) {
	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", p.MediaType, err)
	}
	return img, nil
}

// Render draws img into a width x height cell area. Each cell holds two
// vertically stacked pixels drawn with an upper half block, so the pixel
// grid is width x 2*height. Pixels are sampled through v, zoomed about the
// centre of the area.
func Render(img image.Image, width, height int, v *viewer.Viewer) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	if v == nil {
		v = viewer.New()
	}

	pw, ph := float64(width), float64(2*height)
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return ""
	}

	// fit the image inside the pixel grid, preserving aspect ratio
	fit := math.Min(pw/iw, ph/ih)
	left := (pw - iw*fit) / 2
	top := (ph - ih*fit) / 2
	centre := viewer.Point{X: pw / 2, Y: ph / 2}

	sample := func(x, y int) (color.Color, bool) {
		q := v.ToSource(viewer.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, centre)
		ix := int(math.Floor((q.X - left) / fit))
		iy := int(math.Floor((q.Y - top) / fit))
		if ix < 0 || iy < 0 || ix >= bounds.Dx() || iy >= bounds.Dy() {
			return nil, false
		}
		return img.At(bounds.Min.X+ix, bounds.Min.Y+iy), true
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			upper, okU := sample(col, 2*row)
			lower, okL := sample(col, 2*row+1)
			b.WriteString(cell(upper, okU, lower, okL))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cell(upper color.Color, okU bool, lower color.Color, okL bool) string {
	switch {
	case !okU && !okL:
		return " "
	case okU && !okL:
		return lipgloss.NewStyle().Foreground(hex(upper)).Render("▀")
	case !okU && okL:
		return lipgloss.NewStyle().Foreground(hex(lower)).Render("▄")
	default:
		return lipgloss.NewStyle().Foreground(hex(upper)).Background(hex(lower)).Render("▀")
	}
}

func hex(c color.Color) lipgloss.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent pixel
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color(cf.Hex())
}
