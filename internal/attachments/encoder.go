// Package attachments converts uploaded photos into the encoded data-URL
// form stored on daily reports.
package attachments

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxSize is the upload ceiling. Matches the limit the application has
// always enforced on photo attachments.
const MaxSize = 2 * 1024 * 1024

// maxWidth bounds the stored image; anything wider gets downscaled before
// re-encoding.
const maxWidth = 1600

var ErrTooLarge = errors.New("la imagen es demasiado grande (máximo 2MB)")

// Encoder turns an uploaded photo (a data URL or bare base64 payload) into
// the stored data-URL form.
type Encoder struct{}

// Encode validates the upload against MaxSize, decodes it, downscales wide
// images and re-encodes as JPEG. Any failure aborts the caller's whole
// operation; nothing is stored for a rejected upload.
func (Encoder) Encode(upload string) (string, error) {
	raw, err := decodePayload(upload)
	if err != nil {
		return "", err
	}
	if len(raw) > MaxSize {
		return "", ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodePayload(upload string) ([]byte, error) {
	payload := upload
	if strings.HasPrefix(upload, "data:") {
		i := strings.Index(upload, ",")
		if i < 0 {
			return nil, errors.New("malformed data URL")
		}
		payload = upload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode attachment payload: %w", err)
	}
	return raw, nil
}
