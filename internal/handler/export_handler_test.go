package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/internal/service"
)

type exportJobMock struct {
	createResp  *dto.ExportJobResponse
	createErr   error
	statusResp  *dto.ExportStatusResponse
	statusErr   error
	download    *service.ExportDownload
	downloadErr error
}

func (m *exportJobMock) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *exportJobMock) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *exportJobMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	return m.download, m.downloadErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobMock{
		createResp: &dto.ExportJobResponse{ID: "job-1", Status: models.ExportStatusQueued, Progress: 0},
	}
	handler := NewExportHandler(mockSvc)

	payload, _ := json.Marshal(dto.ExportRequest{StartDate: "2025-10-06", EndDate: "2025-10-12", Format: "csv"})
	c, w := newGinContext(http.MethodPost, "/exports", payload)

	handler.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestExportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobMock{
		statusResp: &dto.ExportStatusResponse{ID: "job-1", Status: models.ExportStatusFinished, Progress: 100},
	}
	handler := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp("", "rota*.csv")
	require.NoError(t, err)
	defer os.Remove(file.Name())
	_, _ = file.WriteString("date,role,employee\n")
	_, _ = file.Seek(0, 0)

	mockSvc := &exportJobMock{
		download: &service.ExportDownload{
			File:      file,
			Filename:  "rota_2025-10-06_2025-10-12_abc12345.csv",
			Format:    models.ExportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/download/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "rota_2025-10-06_2025-10-12_abc12345.csv")
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
}
