package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/logging"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
)

// runtimeEnv is everything a command needs to assess documents
type runtimeEnv struct {
	config *model.Config
	logger *zap.Logger
	built  *pipeline.Built
}

func (r *runtimeEnv) close() {
	if err := r.built.Close(); err != nil {
		r.logger.Warn("close engine", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// setup loads configuration, builds the logger and wires the engine
func setup(ctx context.Context) (*runtimeEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	built, err := pipeline.Build(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return &runtimeEnv{config: cfg, logger: logger, built: built}, nil
}
