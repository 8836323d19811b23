package capture

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"strings"

	"fluxpense-backend/domain"
)

type PayloadKind string

const (
	PayloadImage PayloadKind = "image"
	PayloadText  PayloadKind = "text"
)

// Payload is the normalized capture input: an image (base64-encoded) from the
// camera or an uploaded file, or raw text pasted from an email. Every source
// mode reduces to one of these two shapes before extraction.
type Payload struct {
	Kind     PayloadKind `json:"kind"`
	Data     string      `json:"data"`
	MimeType string      `json:"mime_type,omitempty"`
	Filename string      `json:"filename,omitempty"`
	Size     int64       `json:"size,omitempty"`
}

// FromUpload validates a user-selected file and encodes it to an image
// payload. Validation happens before any bytes are read so oversized or
// non-image files never reach storage or the extraction endpoint.
func FromUpload(file *multipart.FileHeader, maxSize int64) (Payload, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return Payload{}, domain.ErrInvalidFileType
	}

	if file.Size > maxSize {
		return Payload{}, domain.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return Payload{}, domain.ErrFileReadError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return Payload{}, domain.ErrFileReadError
	}

	return Payload{
		Kind:     PayloadImage,
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: contentType,
		Filename: file.Filename,
		Size:     file.Size,
	}, nil
}

// FromFrame encodes a captured camera frame to an image payload.
func FromFrame(frame []byte, mimeType string) (Payload, error) {
	if len(frame) == 0 {
		return Payload{}, domain.ErrFileReadError
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return Payload{
		Kind:     PayloadImage,
		Data:     base64.StdEncoding.EncodeToString(frame),
		MimeType: mimeType,
		Size:     int64(len(frame)),
	}, nil
}

// FromEmailText wraps pasted email text as a text payload.
func FromEmailText(text string) (Payload, error) {
	if strings.TrimSpace(text) == "" {
		return Payload{}, domain.ErrEmptyInput
	}

	return Payload{
		Kind: PayloadText,
		Data: text,
	}, nil
}

// Bytes decodes an image payload back to raw bytes for storage upload.
func (p Payload) Bytes() ([]byte, error) {
	if p.Kind != PayloadImage {
		return nil, domain.ErrInvalidFileType
	}
	return base64.StdEncoding.DecodeString(p.Data)
}
