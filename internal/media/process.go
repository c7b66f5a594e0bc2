package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ProcessImage normalizes a downloaded image for upload: decodes it
// (honouring EXIF orientation), downscales to maxWidth when wider, and
// re-encodes as JPEG at the given quality. Images at or below maxWidth keep
// their dimensions; nothing is ever upscaled.
func ProcessImage(data []byte, maxWidth, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
