package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"guidewizard/models"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUploadTooLarge   = errors.New("file is too large")
	ErrUploadEmpty      = errors.New("file is empty")
	ErrUploadNotAnImage = errors.New("file must be a JPEG or PNG image")
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// ReadImage reads an uploaded file fully into memory and checks that its content is JPEG or PNG.
func ReadImage(fh *multipart.FileHeader, maxBytes int64) (models.Document, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return models.Document{}, ErrUploadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return models.Document{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Document{}, fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return models.Document{}, ErrUploadTooLarge
	}
	return ImageDocument(fh.Filename, data)
}

// ImageDocument wraps raw bytes as a Document after sniffing the content type.
func ImageDocument(filename string, data []byte) (models.Document, error) {
	if len(data) == 0 {
		return models.Document{}, ErrUploadEmpty
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return models.Document{}, fmt.Errorf("%w: got %s", ErrUploadNotAnImage, mt.String())
	}
	return models.Document{
		Filename:    filename,
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
