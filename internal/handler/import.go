package handler

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"partsadmin/internal/apierror"
	"partsadmin/internal/dto"
	"partsadmin/internal/importer"
	"partsadmin/internal/middleware"
	"partsadmin/internal/model"
	"partsadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImportHandler serves bulk upload and the upload template.
type ImportHandler struct {
	svc      service.ImportService
	maxBytes int64
}

func NewImportHandler(svc service.ImportService, maxBytes int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxBytes: maxBytes}
}

// BulkUpload accepts multipart fields file, organization_id and an optional
// application_id ("" or "__none__" for none).
func (h *ImportHandler) BulkUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("file exceeds the upload limit"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("file and organization_id are required"))
		return
	}
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("file exceeds the upload limit"))
		return
	}

	orgID, err := uuid.Parse(strings.TrimSpace(c.PostForm("organization_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("file and organization_id are required"))
		return
	}
	req := service.ImportRequest{OrganizationID: orgID, Filename: fh.Filename}
	if raw := strings.TrimSpace(c.PostForm("application_id")); raw != "" && raw != model.NoApplication {
		appID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid application ID for this organization"))
			return
		}
		req.ApplicationID = &appID
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	if req.Data, err = io.ReadAll(f); err != nil {
		respondError(c, err)
		return
	}

	res, err := h.svc.Import(c.Request.Context(), req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, apierror.New(firstReason(verr)))
			return
		}
		respondError(c, err)
		return
	}

	log.Info().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("file", fh.Filename).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Msg("bulk upload processed")
	c.JSON(http.StatusOK, dto.BulkImportResponse{Success: true, Results: *res})
}

// Template serves the upload template as CSV, or XLSX with ?format=xlsx.
func (h *ImportHandler) Template(c *gin.Context) {
	if strings.EqualFold(c.Query("format"), "xlsx") {
		data, err := importer.TemplateXLSX()
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="parts_template.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="parts_template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", importer.TemplateCSV())
}

func firstReason(verr *model.ValidationError) string {
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return verr.Error()
	}
	return verr.Fields[keys[0]]
}
