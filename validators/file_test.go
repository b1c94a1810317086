package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestFileValidator(t *testing.T) {
	viper.Set("upload.max_size", int64(1024))

	status, data, mime, err := FileValidator(multipartHeader(t, "hello.txt", []byte("hello world")))
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, []byte("hello world"), data)
	assert.Contains(t, mime, "text/plain")
}

func TestFileValidatorSniffsRealType(t *testing.T) {
	viper.Set("upload.max_size", int64(1024))

	// PNG magic bytes behind a misleading name
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, _, mime, err := FileValidator(multipartHeader(t, "image.txt", png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestFileValidatorRejections(t *testing.T) {
	viper.Set("upload.max_size", int64(10))

	status, _, _, err := FileValidator(nil)
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _, err = FileValidator(multipartHeader(t, "empty.txt", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _, err = FileValidator(multipartHeader(t, "big.txt", []byte("more than ten bytes")))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)

	longName := strings.Repeat("a", 300) + ".txt"
	status, _, _, err = FileValidator(multipartHeader(t, longName, []byte("x")))
	assert.ErrorIs(t, err, ErrFileNameTooLong)
	assert.Equal(t, http.StatusBadRequest, status)
}
