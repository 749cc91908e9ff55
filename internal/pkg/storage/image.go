package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage     = errors.New("image must be a base64 data URI")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image is too large")
)

var dataURIRe = regexp.MustCompile(`(?s)^data:image/([a-zA-Z0-9.+-]+);base64,(.+)$`)

// allowedImageTypes maps the detected content type to the stored extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>". Line breaks and
// other whitespace inside the payload are ignored. The extension is inferred
// from the payload bytes, not trusted from the header.
func DecodeDataURI(uri string, maxBytes int64) (*Image, error) {
	m := dataURIRe.FindStringSubmatch(strings.TrimSpace(uri))
	if m == nil {
		return nil, ErrInvalidImage
	}

	payload := strings.Join(strings.Fields(m[2]), "")
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := strings.Split(http.DetectContentType(data), ";")[0]
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, m[1])
	}

	return &Image{Data: data, Ext: ext, ContentType: contentType}, nil
}

// SaveImage decodes a data URI and stores it as <prefix>/<uuid>.<ext>.
func SaveImage(ctx context.Context, st Storage, prefix, uri string, maxBytes int64) (string, error) {
	img, err := DecodeDataURI(uri, maxBytes)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.%s", strings.Trim(prefix, "/"), uuid.New().String(), img.Ext)
	return st.Save(ctx, key, img.Data, img.ContentType)
}
