package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dealercrm/backend/internal/application/ingestion"
)

// ImportHandler handles bulk lead ingestion HTTP requests
type ImportHandler struct {
	BaseHandler
	service *ingestion.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *ingestion.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportLeadsRequest carries the raw CSV content
type ImportLeadsRequest struct {
	CSV string `json:"csv" binding:"required"`
}

// ImportLeads handles POST /leads/import. The import is best-effort per row:
// a rejected row never aborts the rest of the file.
func (h *ImportHandler) ImportLeads(c *gin.Context) {
	var req ImportLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body, expected {\"csv\": \"...\"}")
		return
	}

	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}

	input := ingestion.ImportCSVInput{
		DealershipID: dealershipID,
		Data:         []byte(req.CSV),
	}
	if userID, err := getUserID(c); err == nil {
		input.UploadedBy = userID
	}

	summary, err := h.service.ImportCSV(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
