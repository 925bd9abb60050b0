package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"golang.org/x/image/draw"
)

const (
	MaxWidth      = 800
	JPEGQuality   = 75
	MaxUploadSize = 5 << 20

	// ContentType of every stored image.
	ContentType = "image/jpeg"
)

var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// CheckUpload accepts only jpeg and png files whose extension agrees with
// the declared content type.
func CheckUpload(filename, contentType string) error {
	want, ok := allowedTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok || !strings.EqualFold(strings.TrimSpace(contentType), want) {
		return common.Invalid("Images only (jpg, jpeg, png)")
	}
	return nil
}

// Normalize decodes a jpeg or png image, scales it down to MaxWidth keeping
// the aspect ratio and re-encodes it as JPEG.
func Normalize(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, common.Invalid("Unsupported or corrupt image")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxWidth {
		height = height * MaxWidth / width
		width = MaxWidth
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
