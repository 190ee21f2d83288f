// Package imagestore uploads profile images to S3-compatible object storage
// and hands back the public URL the rest of the service stores.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrNotImage marks payloads that are not a decodable image. Callers treat
// it as a validation failure rather than a store outage.
var ErrNotImage = errors.New("file is not a supported image")

type Upload struct {
	Filename string
	Body     io.Reader
	Size     int64
}

type Store interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, up Upload) (string, error)
}

// sniffImage verifies the payload decodes as gif, jpeg, png or webp and
// returns the detected format name.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return format, nil
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
