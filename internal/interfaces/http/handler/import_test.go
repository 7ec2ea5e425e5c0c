package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/application/ingestion"
	"github.com/dealercrm/backend/internal/interfaces/http/middleware"
)

func newImportRig(t *testing.T, leadStore *fakeLeadStore, dealershipID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := ingestion.NewImportService(leadStore, fakeIntegrationEvents{}, fakeEventLog{}, zap.NewNop())
	h := NewImportHandler(service)

	r := gin.New()
	r.POST("/leads/import", func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, uuid.New().String())
		c.Set(middleware.DealershipIDKey, dealershipID)
		c.Next()
	}, h.ImportLeads)
	return r
}

func postImport(r *gin.Engine, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/leads/import", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportLeads_MixedRows(t *testing.T) {
	dealershipID := uuid.New()
	leadStore := &fakeLeadStore{}
	r := newImportRig(t, leadStore, dealershipID)

	csv := "first_name,last_name,email,phone\n" +
		"Dana,Whitfield,dana@example.com,\n" +
		"NoContact,Row,,\n" +
		"Jordan,Pike,,5125550147\n"

	w := postImport(r, ImportLeadsRequest{CSV: csv})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			TotalRows    int `json:"totalRows"`
			SuccessCount int `json:"successCount"`
			FailureCount int `json:"failureCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Data.TotalRows)
	assert.Equal(t, 2, resp.Data.SuccessCount)
	assert.Equal(t, 1, resp.Data.FailureCount)
	assert.Len(t, leadStore.leads, 2)
}

func TestImportLeads_MissingBody(t *testing.T) {
	r := newImportRig(t, &fakeLeadStore{}, uuid.New())

	w := postImport(r, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportLeads_UnmappableHeader(t *testing.T) {
	r := newImportRig(t, &fakeLeadStore{}, uuid.New())

	w := postImport(r, ImportLeadsRequest{CSV: "colour,shape\nred,square\n"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
