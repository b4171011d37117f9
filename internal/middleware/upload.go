package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/logger"
	"tdc_backend/pkg/apperrors"
	"tdc_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

const (
	allowedExtension = ".pdf"
	// multipart parts beyond this are spooled to disk by net/http
	multipartMemory = 32 << 20
	// bound on the whole body: the largest form carries well under this many files
	maxFilesPerForm = 16
)

// UploadForm is a parsed multipart application form.
type UploadForm struct {
	Fields map[string]string
	Files  map[string]attachments.File
}

// UploadMiddleware reads a multipart form, accepting only PDF files of at
// most maxSize bytes each. Requests without a multipart body yield an empty form.
func UploadMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := &UploadForm{
			Fields: map[string]string{},
			Files:  map[string]attachments.File{},
		}

		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Set(contextkeys.UploadFormKey, form)
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize*maxFilesPerForm+multipartMemory)
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apperrors.HandleError(c, apperrors.ErrFileTooLarge)
				return
			}
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form"))
			return
		}
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()

		for name, values := range c.Request.MultipartForm.Value {
			if len(values) > 0 {
				form.Fields[name] = values[0]
			}
		}

		for field, headers := range c.Request.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			header := headers[0]

			if !strings.EqualFold(filepath.Ext(header.Filename), allowedExtension) {
				apperrors.HandleError(c, apperrors.ErrInvalidFileType.WithDetails(map[string]string{
					field: "Only PDF files are allowed",
				}))
				return
			}
			if header.Size > maxSize {
				apperrors.HandleError(c, apperrors.ErrFileTooLarge.WithDetails(map[string]string{
					field: fmt.Sprintf("File must be at most %d bytes", maxSize),
				}))
				return
			}

			data, err := readPart(header)
			if err != nil {
				logger.CtxWithError(c.Request.Context(), "Failed to read uploaded file", err, "field", field)
				apperrors.HandleError(c, apperrors.NewBadRequestError("Could not read uploaded file: "+field))
				return
			}

			form.Files[field] = attachments.File{
				Field:       field,
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			}
		}

		c.Set(contextkeys.UploadFormKey, form)
		c.Next()
	}
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetUploadForm returns the form parsed by UploadMiddleware.
func GetUploadForm(c *gin.Context) *UploadForm {
	if v, ok := c.Get(contextkeys.UploadFormKey); ok {
		if form, ok := v.(*UploadForm); ok {
			return form
		}
	}
	return &UploadForm{Fields: map[string]string{}, Files: map[string]attachments.File{}}
}
