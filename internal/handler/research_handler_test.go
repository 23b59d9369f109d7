package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/research-guide-api/internal/dto"
	"github.com/noah-isme/research-guide-api/internal/models"
	"github.com/noah-isme/research-guide-api/internal/service"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
	"github.com/noah-isme/research-guide-api/pkg/response"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

type documentServiceMock struct {
	result   *service.RenderResult
	err      error
	received dto.ResearchProject
	file     *os.File
	openErr  error
}

func (m *documentServiceMock) Generate(ctx context.Context, req dto.ResearchProject) (*service.RenderResult, error) {
	m.received = req
	return m.result, m.err
}

func (m *documentServiceMock) Open(name, token string) (*os.File, error) {
	return m.file, m.openErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestResearchHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &documentServiceMock{result: &service.RenderResult{FilePath: "/api/research/download/a.pdf"}}
	handler := NewResearchHandler(mockSvc)

	payload, _ := json.Marshal(service.BuildDocumentRequest(models.ExampleFormState()))
	c, w := newGinContext(http.MethodPost, "/api/research/generate", payload)

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"PDF generado exitosamente","file_path":"/api/research/download/a.pdf"}`, w.Body.String())
	assert.Equal(t, "Enfoque: mixto", mockSvc.received.Metodologia[:len("Enfoque: mixto")])
}

func TestResearchHandlerGenerateErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodPost, "/api/research/generate", []byte("{broken"))
	NewResearchHandler(&documentServiceMock{}).Generate(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	mockSvc := &documentServiceMock{err: appErrors.Wrap(errors.New("disk full"), appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, appErrors.ErrRenderFailed.Message)}
	payload, _ := json.Marshal(service.BuildDocumentRequest(models.DefaultFormState()))
	c, w = newGinContext(http.MethodPost, "/api/research/generate", payload)
	NewResearchHandler(mockSvc).Generate(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No fue posible generar el PDF.", body.Detail)
	assert.Equal(t, appErrors.ErrRenderFailed.Code, body.Code)
}

func TestResearchHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3 test"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	handler := NewResearchHandler(&documentServiceMock{file: file})
	c, w := newGinContext(http.MethodGet, "/api/research/download/doc.pdf", nil)
	c.Params = gin.Params{{Key: "file", Value: "doc.pdf"}}

	handler.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="doc.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
}

func TestResearchHandlerDownloadMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewResearchHandler(&documentServiceMock{openErr: appErrors.ErrNotFound})
	c, w := newGinContext(http.MethodGet, "/api/research/download/nope.pdf", nil)
	c.Params = gin.Params{{Key: "file", Value: "nope.pdf"}}

	handler.Download(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Archivo no encontrado", body["detail"])
}

func TestResearchRoutesEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := service.NewRenderService(store, signer, service.RenderConfig{}, nil, nil, nil)
	handler := NewResearchHandler(svc)

	router := gin.New()
	router.POST("/api/research/generate", handler.Generate)
	router.GET("/api/research/download/:file", handler.Download)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := service.NewDocumentClient(service.DocumentClientConfig{BaseURL: srv.URL}, srv.Client(), nil)
	fb, err := client.Submit(context.Background(), models.ExampleFormState())
	require.NoError(t, err)
	require.Equal(t, service.StatusSucceeded, fb.Status, fb.Message)
	require.Equal(t, "PDF generado exitosamente", fb.Message)

	resp, err := srv.Client().Get(fb.DownloadURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	head := make([]byte, 5)
	_, err = io.ReadFull(resp.Body, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))

	unsigned, err := srv.Client().Get(srv.URL + "/api/research/download/missing.pdf?token=x")
	require.NoError(t, err)
	defer unsigned.Body.Close()
	assert.Equal(t, http.StatusForbidden, unsigned.StatusCode)
}
