package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/dto"
	"github.com/noah-isme/research-guide-api/internal/models"
	"github.com/noah-isme/research-guide-api/pkg/config"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

// GeneratePath is the rendering endpoint relative to the base URL.
const GeneratePath = "/api/research/generate"

const (
	// SuccessMessage is shown when the service omits its own message.
	SuccessMessage = "PDF generado exitosamente."
	// FailureMessage is the last resort of the failure message chain.
	FailureMessage = "No fue posible generar el PDF."

	maxResponseBytes = 1 << 20
)

// SubmissionStatus is the state of the DocumentClient.
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSucceeded  SubmissionStatus = "succeeded"
	StatusFailed     SubmissionStatus = "failed"
)

// Terminal reports whether s is a finished submission outcome.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Feedback is the user-facing outcome of a submission.
type Feedback struct {
	Status      SubmissionStatus `json:"status"`
	Message     string           `json:"message,omitempty"`
	DownloadURL string           `json:"download_url,omitempty"`
}

// Empty reports whether there is nothing to show.
func (f Feedback) Empty() bool {
	return f.Message == "" && f.DownloadURL == ""
}

// DocumentClientConfig tunes the rendering client.
type DocumentClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DocumentClient submits the form to the rendering service and keeps the
// outcome until the caller acknowledges it.
type DocumentClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu       sync.Mutex
	status   SubmissionStatus
	feedback Feedback
}

// NewDocumentClient constructs a DocumentClient. A nil httpClient gets one
// with the configured timeout.
func NewDocumentClient(cfg DocumentClientConfig, httpClient *http.Client, logger *zap.Logger) *DocumentClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &DocumentClient{
		baseURL: config.NormalizeBaseURL(cfg.BaseURL),
		client:  httpClient,
		logger:  logger,
		status:  StatusIdle,
	}
}

// BaseURL returns the normalized service root.
func (c *DocumentClient) BaseURL() string {
	return c.baseURL
}

// Busy reports whether a submission is in flight.
func (c *DocumentClient) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == StatusSubmitting
}

// Status returns the current state.
func (c *DocumentClient) Status() SubmissionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Feedback returns the last outcome, if any.
func (c *DocumentClient) Feedback() Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

// Acknowledge marks a terminal outcome as observed, returning the client to
// idle. The feedback stays readable until cleared.
func (c *DocumentClient) Acknowledge() Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Terminal() {
		c.status = StatusIdle
	}
	return c.feedback
}

// ClearFeedback drops any shown outcome. An in-flight submission is not
// affected and will still report its result.
func (c *DocumentClient) ClearFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = Feedback{}
	if c.status.Terminal() {
		c.status = StatusIdle
	}
}

// Submit sends the state to the rendering service. Service and transport
// failures are reported through the returned Feedback; the error is only set
// when another submission is still in flight. Busy is cleared on every path.
func (c *DocumentClient) Submit(ctx context.Context, state models.FormState) (fb Feedback, err error) {
	c.mu.Lock()
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return Feedback{}, appErrors.ErrSubmissionInProgress
	}
	c.status = StatusSubmitting
	c.feedback = Feedback{}
	c.mu.Unlock()

	fb = failed(FailureMessage)
	defer func() { c.finish(fb) }()

	fb = c.send(ctx, BuildDocumentRequest(state))
	return fb, nil
}

func (c *DocumentClient) finish(fb Feedback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = fb.Status
	c.feedback = fb
}

func (c *DocumentClient) send(ctx context.Context, payload dto.ResearchProject) Feedback {
	body, err := json.Marshal(payload)
	if err != nil {
		return failed(failureMessage(dto.ErrorResponse{}, err.Error()))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return failed(failureMessage(dto.ErrorResponse{}, err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("document request failed", zap.Error(err))
		return failed(failureMessage(dto.ErrorResponse{}, err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failed(failureMessage(dto.ErrorResponse{}, err.Error()))
	}
	c.logger.Debug("document request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errBody dto.ErrorResponse
		_ = json.Unmarshal(raw, &errBody)
		return failed(failureMessage(errBody, fmt.Sprintf("Request failed with status code %d", resp.StatusCode)))
	}

	var out dto.GenerateResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return failed(failureMessage(dto.ErrorResponse{}, fmt.Sprintf("decode response: %v", err)))
		}
	}

	fb := Feedback{Status: StatusSucceeded, Message: SuccessMessage}
	if msg := strings.TrimSpace(out.Message); msg != "" {
		fb.Message = msg
	}
	if out.FilePath != "" {
		fb.DownloadURL = c.baseURL + out.FilePath
	}
	return fb
}

func failed(message string) Feedback {
	return Feedback{Status: StatusFailed, Message: message}
}

// failureMessage picks, in order: the server detail, the server message, the
// transport description and finally FailureMessage.
func failureMessage(body dto.ErrorResponse, transport string) string {
	if detail, ok := body.Detail.(string); ok && strings.TrimSpace(detail) != "" {
		return detail
	}
	if strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	if strings.TrimSpace(transport) != "" {
		return transport
	}
	return FailureMessage
}

// BuildDocumentRequest flattens the state into the eight request sections.
// Every section is trimmed and falls back to dto.Placeholder when empty.
func BuildDocumentRequest(state models.FormState) dto.ResearchProject {
	return dto.ResearchProject{
		Problema:       orPlaceholder(state.Problem),
		ObjGeneral:     orPlaceholder(state.GeneralObjective),
		ObjEspecificos: orPlaceholder(state.SpecificObjectives),
		Marco:          orPlaceholder(state.TheoreticalFramework),
		Metodologia:    orPlaceholder(Methodology(state)),
		Resultados:     orPlaceholder(state.Results),
		Conclusiones:   orPlaceholder(state.Conclusion),
		Referencias:    orPlaceholder(state.References),
	}
}

// Methodology joins approach, design, sample and instruments into labelled
// paragraphs. Empty sub-fields are omitted; the approach always has a value.
func Methodology(state models.FormState) string {
	state = state.Normalize()
	lines := []string{"Enfoque: " + string(state.Approach)}
	for _, part := range []struct{ label, value string }{
		{"Diseño", state.Design},
		{"Muestra", state.Sample},
		{"Instrumentos", state.Instruments},
	} {
		if value := strings.TrimSpace(part.value); value != "" {
			lines = append(lines, part.label+": "+value)
		}
	}
	return strings.Join(lines, "\n\n")
}

func orPlaceholder(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return dto.Placeholder
}
