// ABOUTME: Tests for screenshot decoding and rendering
// ABOUTME: Verifies data URI parsing, image decoding and zoom-aware sampling

package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/markalston/autoclick-dashboard/internal/viewer"
)

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  string
		wantData  string
		wantError bool
	}{
		{"png data uri", "data:image/png;base64,aGVsbG8=", "image/png", "hello", false},
		{"jpeg data uri", "data:image/jpeg;base64,aGVsbG8=", "image/jpeg", "hello", false},
		{"bare base64", "aGVsbG8=", "image/png", "hello", false},
		{"unpadded base64", "aGVsbG8", "image/png", "hello", false},
		{"missing comma", "data:image/png;base64", "", "", true},
		{"not base64 encoded", "data:text/plain,hello", "", "", true},
		{"garbage", "data:image/png;base64,@@@", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Parse(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if p.MediaType != tt.wantType || string(p.Data) != tt.wantData {
				t.Errorf("Parse(%q) = %q %q, want %q %q", tt.input, p.MediaType, p.Data, tt.wantType, tt.wantData)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse("   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestPayloadExtension(t *testing.T) {
	if got := (Payload{MediaType: "image/jpeg"}).Extension(); got != ".jpg" {
		t.Errorf("jpeg extension = %q", got)
	}
	if got := (Payload{MediaType: "image/png"}).Extension(); got != ".png" {
		t.Errorf("png extension = %q", got)
	}
}

func TestDecode(t *testing.T) {
	uri := "data:image/png;base64," + encodePNG(t, solid(4, 2, color.RGBA{R: 255, A: 255}))
	img, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", img.Bounds())
	}

	if _, err := Decode("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))); err == nil {
		t.Error("expected error decoding non-image bytes")
	}
}

func TestRender_Dimensions(t *testing.T) {
	img := solid(10, 10, color.RGBA{G: 200, A: 255})
	out := Render(img, 12, 5, viewer.New())

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("rendered %d lines, want 5", len(lines))
	}
}

func TestRender_EmptyInputs(t *testing.T) {
	if Render(nil, 10, 10, nil) != "" {
		t.Error("nil image should render empty")
	}
	if Render(solid(2, 2, color.White), 0, 10, nil) != "" {
		t.Error("zero width should render empty")
	}
}

func TestRender_ZoomFillsLetterbox(t *testing.T) {
	// A wide image in a square area leaves blank rows above and below at
	// 100%; zooming in fills them.
	img := solid(20, 10, color.RGBA{B: 255, A: 255})
	v := viewer.New()

	flat := Render(img, 10, 10, v)
	if !strings.HasPrefix(flat, strings.Repeat(" ", 10)) {
		t.Fatalf("first row at 100%% should be blank, got %q", strings.Split(flat, "\n")[0])
	}

	for i := 0; i < 8; i++ {
		v.ZoomIn()
	}
	zoomed := Render(img, 10, 10, v)
	if strings.HasPrefix(zoomed, strings.Repeat(" ", 10)) {
		t.Error("first row at 500% should be filled by the zoomed image")
	}
}
