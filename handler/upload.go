package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crosti/buyerform/model"
	"github.com/crosti/buyerform/pkg/logger"
	"github.com/crosti/buyerform/service"
)

// FileProcessor turns an uploaded file into a downloadable workbook.
type FileProcessor interface {
	Process(ctx context.Context, filename string, data []byte) (*service.IngestResult, error)
}

type UploadHandler struct {
	processor FileProcessor
	maxBytes  int64
}

// NewUploadHandler caps request bodies at maxBytes; zero means no cap.
func NewUploadHandler(processor FileProcessor, maxBytes int64) *UploadHandler {
	return &UploadHandler{processor: processor, maxBytes: maxBytes}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)

	// Reject by name before reading the body.
	if _, err := service.DetectFormat(filename); err != nil {
		h.fail(c, filename, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, filename, err)
		return
	}

	result, err := h.processor.Process(ctx, filename, data)
	if err != nil {
		h.fail(c, filename, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(result.Filename)))
	c.Data(http.StatusOK, service.XLSXContentType, result.Data)
}

func (h *UploadHandler) fail(c *gin.Context, filename string, err error) {
	status, msg := uploadError(err)
	if status >= http.StatusInternalServerError {
		logger.Failure(c.Request.Context(), "upload processing failed", err, "filename", filename)
	} else {
		logger.Warn(c.Request.Context(), "upload rejected", "kind", model.Kind(err), "error", err, "filename", filename)
	}
	c.JSON(status, gin.H{"error": msg})
}

// uploadError maps a pipeline error to a status and a fixed client message.
func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrPDFNotSupported):
		return http.StatusBadRequest, "PDF files not yet supported"
	case errors.Is(err, model.ErrUnsupportedFormat):
		return http.StatusBadRequest, "Unsupported file type"
	case errors.Is(err, model.ErrParse):
		return http.StatusBadRequest, "Could not read uploaded file"
	default:
		return http.StatusInternalServerError, "Error processing file"
	}
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
