package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/config"
	"github.com/ilearnhow/lessonsynth/internal/lessons"
	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/logging"
	"github.com/ilearnhow/lessonsynth/internal/observability"
	"github.com/ilearnhow/lessonsynth/internal/redis"
	"github.com/ilearnhow/lessonsynth/internal/source"
	"github.com/ilearnhow/lessonsynth/internal/store"
	"github.com/ilearnhow/lessonsynth/internal/synth"
	"github.com/ilearnhow/lessonsynth/internal/synthcache"
	"github.com/ilearnhow/lessonsynth/internal/translate"
)

// runtime holds the dependencies shared by the serving commands.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	redis   *redis.Client
	service *lessons.Service

	shutdownTracing func(context.Context) error
}

// openRuntime opens the store, builds the optional collaborators, and wires
// the lesson service. Generation, translation and Redis are optional; when
// one cannot be set up the service runs without it.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log}

	rt.shutdownTracing, err = observability.InitTracing(ctx, log, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "lessonsynth",
		Environment: cfg.Server.Environment,
		Version:     version,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	rt.store, err = store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	events := rt.store.EventRepo()

	synthOpts := []synth.Option{
		synth.WithTimeout(cfg.LLM.Timeout),
		synth.WithLogger(log.Named("synth")),
	}
	provider, err := llm.NewProvider(ctx, cfg.LLMProviderConfig(), events, log.Named("llm"))
	switch {
	case errors.Is(err, llm.ErrDisabled):
		log.Info("LLM generation disabled, using templates")
	case err != nil:
		log.Warn("LLM provider not configured, using templates", zap.Error(err))
	default:
		synthOpts = append(synthOpts, synth.WithGenerator(synth.NewLLMGenerator(provider, synth.DefaultGeneratorConfig())))
		if cfg.LLM.Translate {
			synthOpts = append(synthOpts, synth.WithTranslator(translate.New(provider, translate.DefaultConfig())))
		}
		log.Info("LLM generation enabled", zap.String("model", provider.ModelID()))
	}

	var cacheOpts []synthcache.Option
	cacheOpts = append(cacheOpts, synthcache.WithLogger(log.Named("cache")))
	if cfg.Cache.RedisURL != "" {
		rt.redis, err = redis.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without it", zap.Error(err))
		} else {
			cacheOpts = append(cacheOpts, synthcache.WithBackend(synthcache.NewRedisBackend(rt.redis, cfg.Cache.TTL)))
		}
	}
	if rt.redis == nil && cfg.Cache.Persist {
		cacheOpts = append(cacheOpts, synthcache.WithBackend(rt.store.LessonRepo()))
	}

	var dirLoader source.Loader
	if cfg.DataDir != "" {
		dirLoader = source.NewDirLoader(cfg.DataDir, source.WithLogger(log.Named("source")))
	}
	loader := source.Chain(dirLoader, source.Builtin(source.WithLogger(log.Named("source"))))

	rt.service = lessons.NewService(loader, synth.New(synthOpts...), synthcache.New(cacheOpts...),
		lessons.WithEvents(events),
		lessons.WithLogger(log.Named("lessons")),
	)
	return rt, nil
}

// Close releases everything openRuntime acquired.
func (r *runtime) Close() {
	if r.service != nil {
		r.service.Wait()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.shutdownTracing != nil {
		_ = r.shutdownTracing(context.Background())
	}
	_ = r.log.Sync()
}
