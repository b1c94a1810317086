// Package validators checks user-supplied input before it reaches the
// domain services
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
)

const maxFileNameSize = 255

// FileValidator checks the multipart header, reads the upload into
// memory and sniffs the real content type. The declared Content-Type
// header is easy to spoof, so the sniffed value is the one stored
func FileValidator(fh *multipart.FileHeader) (int, []byte, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, "", ErrFileNameTooLong
	}

	maxFileSize := viper.GetInt64("upload.max_size")
	if fh.Size > maxFileSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	if fh.Size == 0 {
		return http.StatusBadRequest, nil, "", ErrEmptyFile
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	// The header size can lie; check what actually arrived
	if int64(len(data)) > maxFileSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	mime := mimetype.Detect(data)

	return 0, data, mime.String(), nil
}
