package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/models"
	"github.com/noah-isme/research-guide-api/internal/repository"
	"github.com/noah-isme/research-guide-api/internal/service"
	"github.com/noah-isme/research-guide-api/pkg/cache"
	"github.com/noah-isme/research-guide-api/pkg/config"
	"github.com/noah-isme/research-guide-api/pkg/database"
	"github.com/noah-isme/research-guide-api/pkg/logger"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

// session is one CLI invocation's view over the guide.
type session struct {
	cfg     *config.Config
	guide   *service.GuideService
	logger  *zap.Logger
	out     io.Writer
	closers []func()
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts.apply(cfg)

	log, err := logger.NewConsole(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	s := &session{cfg: cfg, logger: log, out: cmd.OutOrStdout()}
	s.closers = append(s.closers, func() { _ = log.Sync() })

	presets, err := service.LoadPresets(cfg.Guide.ExampleFile)
	if err != nil {
		log.Warn("example preset ignored", zap.Error(err))
	}

	ctx := cmd.Context()
	drafts, closeDrafts, err := openDraftStore(ctx, cfg, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, closeDrafts)

	s.guide = service.NewGuideService(drafts, nil, service.GuideConfig{
		Persistence: service.PersistenceConfig{
			Key:              cfg.Guide.StorageKey,
			RestoredDuration: cfg.Guide.RestoredDuration,
		},
		Client: service.DocumentClientConfig{
			BaseURL: cfg.Guide.APIURL,
			Timeout: cfg.Guide.RequestTimeout,
		},
		Presets: &presets,
	}, log)
	s.closers = append(s.closers, s.guide.Close)
	s.guide.OnIntent(func(intent models.Intent) { renderIntent(s.out, s.guide, intent) })
	s.guide.Start(ctx)
	return s, nil
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// openDraftStore selects the draft backend named by the configuration.
func openDraftStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.DraftStore, func(), error) {
	switch cfg.Guide.DraftBackend {
	case "", config.DraftBackendFile:
		files, err := storage.NewLocalStorage(cfg.Guide.DraftDir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileDraftRepository(files), func() {}, nil
	case config.DraftBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisDraftRepository(client, "", log), func() { _ = client.Close() }, nil
	case config.DraftBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewDraftRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown draft backend %q (want file, redis or postgres)", cfg.Guide.DraftBackend)
	}
}
