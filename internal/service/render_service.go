package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/dto"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
	"github.com/noah-isme/research-guide-api/pkg/export"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

const (
	// DocumentTitle heads every rendered document.
	DocumentTitle = "Proyecto de Investigación"
	// DocumentSuccessMessage is returned by the generate endpoint.
	DocumentSuccessMessage = "PDF generado exitosamente"

	documentPrefix    = "proyecto_investigacion_"
	documentExtension = ".pdf"
	footerLayout      = "02/01/2006 15:04"
	fileStampLayout   = "20060102_150405"
)

type documentStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration, suffix string) ([]string, error)
}

type documentRenderer interface {
	RenderDocument(doc export.Document) ([]byte, error)
}

// RenderConfig tunes document rendering.
type RenderConfig struct {
	DownloadPath     string
	FileTTL          time.Duration
	CleanupInterval  time.Duration
	MaxSectionLength int
}

// RenderResult describes a stored document.
type RenderResult struct {
	DocumentID string
	FileName   string
	FilePath   string
	ExpiresAt  time.Time
}

// RenderService validates generation requests, renders them to PDF and
// serves the stored files back.
type RenderService struct {
	storage   documentStorage
	renderer  documentRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       RenderConfig
	now       func() time.Time
}

// NewRenderService constructs a RenderService.
func NewRenderService(store documentStorage, signer *storage.SignedURLSigner, cfg RenderConfig, metrics *MetricsService, logger *zap.Logger, renderer documentRenderer) *RenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/research/download"
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	if cfg.MaxSectionLength <= 0 {
		cfg.MaxSectionLength = 20000
	}
	svc := &RenderService{
		storage:   store,
		renderer:  renderer,
		signer:    signer,
		validator: validator.New(),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
	svc.validator.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= svc.cfg.MaxSectionLength
	})
	return svc
}

// Generate renders req to a PDF, stores it and returns its download path.
func (s *RenderService) Generate(ctx context.Context, req dto.ResearchProject) (*RenderResult, error) {
	start := time.Now()
	if err := s.validate(req); err != nil {
		s.metrics.ObserveRender(RenderOutcomeInvalid, time.Since(start))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	payload, err := s.renderer.RenderDocument(BuildDocument(req, now))
	if err != nil {
		s.metrics.ObserveRender(RenderOutcomeError, time.Since(start))
		s.logger.Error("render document", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, appErrors.ErrRenderFailed.Message)
	}

	documentID := uuid.NewString()
	name, err := s.storage.Save(documentFileName(now, documentID), payload)
	if err != nil {
		s.metrics.ObserveRender(RenderOutcomeError, time.Since(start))
		s.logger.Error("store document", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, appErrors.ErrRenderFailed.Message)
	}

	result := &RenderResult{
		DocumentID: documentID,
		FileName:   name,
		FilePath:   strings.TrimRight(s.cfg.DownloadPath, "/") + "/" + url.PathEscape(name),
	}
	if s.signer != nil {
		token, expiresAt, err := s.signer.Generate(documentID, name)
		if err != nil {
			_ = s.storage.Delete(name)
			s.metrics.ObserveRender(RenderOutcomeError, time.Since(start))
			return nil, appErrors.Wrap(err, appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, appErrors.ErrRenderFailed.Message)
		}
		result.FilePath += "?token=" + url.QueryEscape(token)
		result.ExpiresAt = expiresAt
	}

	s.metrics.ObserveRender(RenderOutcomeSuccess, time.Since(start))
	s.logger.Info("document generated",
		zap.String("document_id", documentID),
		zap.String("file", name),
		zap.Int("bytes", len(payload)),
	)
	return result, nil
}

func (s *RenderService) validate(req dto.ResearchProject) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid research project")
	}
	return nil
}

// Open returns the stored document named name. When download links are
// signed, token must be valid for that name.
func (s *RenderService) Open(name, token string) (*os.File, error) {
	if !strings.HasSuffix(name, documentExtension) {
		return nil, appErrors.ErrNotFound
	}
	if s.signer != nil {
		if _, _, err := s.signer.Verify(token, name); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "enlace de descarga inválido o expirado")
		}
	}
	file, err := s.storage.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return file, nil
}

// StartCleanup boots a goroutine that purges expired documents periodically.
func (s *RenderService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Cleanup(); err != nil {
					s.logger.Sugar().Warnw("document cleanup failed", "error", err)
				}
			}
		}
	}()
}

// Cleanup removes documents older than the configured TTL.
func (s *RenderService) Cleanup() ([]string, error) {
	removed, err := s.storage.CleanupOlderThan(s.cfg.FileTTL, documentExtension)
	s.metrics.RecordCleanup(len(removed))
	if len(removed) > 0 {
		s.logger.Info("expired documents removed", zap.Int("count", len(removed)))
	}
	return removed, err
}

// BuildDocument lays out the eight sections of a research project.
func BuildDocument(req dto.ResearchProject, at time.Time) export.Document {
	return export.Document{
		Title: DocumentTitle,
		Sections: []export.Section{
			{Title: "Planteamiento del Problema", Body: req.Problema},
			{Title: "Objetivo General", Body: req.ObjGeneral},
			{Title: "Objetivos Específicos", Body: req.ObjEspecificos},
			{Title: "Marco Teórico", Body: req.Marco},
			{Title: "Metodología", Body: req.Metodologia},
			{Title: "Resultados Esperados", Body: req.Resultados},
			{Title: "Conclusiones", Body: req.Conclusiones},
			{Title: "Referencias", Body: req.Referencias},
		},
		Footer: fmt.Sprintf("Generado automáticamente el %s.", at.Format(footerLayout)),
	}
}

func documentFileName(at time.Time, documentID string) string {
	short := strings.ReplaceAll(documentID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return documentPrefix + at.Format(fileStampLayout) + "_" + short + documentExtension
}
