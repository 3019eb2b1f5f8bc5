package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when an upload expected to be an image is something else.
var ErrNotImage = errors.New("file is not a supported image")

const pdfMIME = "application/pdf"

// DetectContentType sniffs the MIME type of data, ignoring any client supplied value.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsPDF reports whether data is a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is(pdfMIME)
}

var imageFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

// NormalizeImage decodes an uploaded image, applies its EXIF orientation and downscales it
// to fit within maxDim x maxDim. Images already within bounds are returned unchanged. The
// returned content type matches the encoded bytes.
func NormalizeImage(data []byte, maxDim int) ([]byte, string, error) {
	mt := mimetype.Detect(data)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	format, ok := imageFormats[contentType]
	if !ok {
		return nil, "", ErrNotImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if maxDim <= 0 || fits(img.Bounds(), maxDim) {
		return data, contentType, nil
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), contentType, nil
}

func fits(bounds image.Rectangle, maxDim int) bool {
	return bounds.Dx() <= maxDim && bounds.Dy() <= maxDim
}
