package resize

import (
	"bytes"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // webp header sniffing for SourceWidth

	apperrors "picren/internal/errors"
)

// ImageResizer downsizes images while preserving aspect ratio. Output
// encoding follows the source MIME type: PNG stays PNG (lossless), WEBP
// stays WEBP, everything else becomes JPEG.
type ImageResizer struct{}

// SourceWidth decodes only the image header.
func (ImageResizer) SourceWidth(data []byte) (int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.DecodeFailure, "decode-config", "", err)
	}
	return cfg.Width, nil
}

// ShouldResize reports whether a downscale is needed. Never upscales.
func (ImageResizer) ShouldResize(sourceWidth, targetWidth int) bool {
	return sourceWidth > targetWidth
}

// Resize decodes, downscales to targetWidth with Lanczos resampling and
// re-encodes. Quality applies to lossy formats on the 1-100 scale.
func (ImageResizer) Resize(data []byte, mimeType string, targetWidth, quality int) ([]byte, error) {
	src, err := decode(data, mimeType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.DecodeFailure, "decode", "", err)
	}

	bounds := src.Bounds()
	targetHeight := int(math.Round(float64(targetWidth) * float64(bounds.Dy()) / float64(bounds.Dx())))
	dst := imaging.Resize(src, targetWidth, targetHeight, imaging.Lanczos)

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		err = imaging.Encode(&buf, dst, imaging.PNG)
	case "image/webp":
		err = webp.Encode(&buf, dst, &webp.Options{Quality: float32(quality)})
	default:
		err = imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.EncodeFailure, "encode", "", err)
	}

	return buf.Bytes(), nil
}

func decode(data []byte, mimeType string) (image.Image, error) {
	if mimeType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
