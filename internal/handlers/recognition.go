// internal/handlers/recognition.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartadega/smartadega-api/internal/i18n"
	"github.com/smartadega/smartadega-api/internal/services"
	"github.com/smartadega/smartadega-api/internal/utils"
)

// Room for multipart boundaries and headers on top of the image itself.
const multipartOverhead = 1 << 20

type RecognitionHandler struct {
	recognitionService *services.RecognitionService
	maxUploadSize      int64
}

func NewRecognitionHandler(recognitionService *services.RecognitionService, maxUploadSize int64) *RecognitionHandler {
	return &RecognitionHandler{
		recognitionService: recognitionService,
		maxUploadSize:      maxUploadSize,
	}
}

// POST /api/recognition/analyze
func (h *RecognitionHandler) AnalyzeLabel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	tooLarge := i18n.T(lang, i18n.KeyFileTooLarge, h.maxUploadSize>>20)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.BadRequestResponse(c, tooLarge, "")
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), "")
		return
	}

	if header.Size > h.maxUploadSize {
		utils.BadRequestResponse(c, tooLarge, "")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), "")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	summary, err := h.recognitionService.AnalyzeLabel(c.Request.Context(), services.LabelImage{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
