package cli

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/timmy/shotctl/internal/client"
	"github.com/timmy/shotctl/internal/config"
	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/repository"
	"github.com/timmy/shotctl/internal/service"
	"github.com/timmy/shotctl/internal/storage"
)

type globalOptions struct {
	apiKey     string
	configPath string
	verbose    bool
	noColor    bool
}

// app holds what every command shares: resolved configuration, the logger,
// the output printer and lazily opened resources.
type app struct {
	opts globalOptions
	cfg  *config.Config
	log  *logger.Logger
	p    *printer

	db      *gorm.DB
	history *repository.HistoryRepository
}

// setup resolves configuration once per invocation and installs the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	resolved := cfg.WithAPIKey(a.opts.apiKey)
	a.cfg = &resolved

	lcfg := logger.DefaultConfig()
	lcfg.Level = cfg.Log.Level
	lcfg.Format = cfg.Log.Format
	lcfg.File = cfg.Log.File
	lcfg.Output = a.p.err
	a.log = logger.NewFromEnv(lcfg)
	if a.opts.verbose {
		a.log.Logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetDefaultLogger(a.log)

	a.log.WithFields(logger.Fields{
		"base_url": a.cfg.API.BaseURL,
		"history":  a.cfg.History.Enabled,
		"mirror":   a.cfg.Storage.Enabled,
	}).Debug("Configuration loaded")
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := repository.Close(a.db); err != nil && a.log != nil {
			a.log.WithError(err).Warn("Failed to close history database")
		}
		a.db = nil
	}
}

func (a *app) client() (*client.Client, error) {
	return client.New(client.Config{
		APIKey:  a.cfg.API.Key,
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Retries: a.cfg.API.Retries,
	})
}

// historyRepo opens the history database on first use.
func (a *app) historyRepo() (*repository.HistoryRepository, error) {
	if a.history != nil {
		return a.history, nil
	}
	db, err := repository.InitDB(a.cfg.History)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.history = repository.NewHistoryRepository(db)
	return a.history, nil
}

// materializer wires the local file writer, the terminal preview and the
// optional bucket mirror and history. Optional parts that cannot be set up
// are logged and left out.
func (a *app) materializer() *service.Materializer {
	var opts []service.MaterializerOption

	if a.cfg.Storage.Enabled {
		sc := a.cfg.Storage
		store, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(sc.Type),
			Endpoint:  sc.Endpoint,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
			UseSSL:    sc.UseSSL,
			Bucket:    sc.Bucket,
			Region:    sc.Region,
			PublicURL: sc.PublicURL,
			Prefix:    sc.Prefix,
		})
		if err != nil {
			a.log.WithError(err).Warn("Storage mirror disabled")
		} else {
			opts = append(opts, service.WithMirror(store))
		}
	}

	if a.cfg.History.Enabled {
		repo, err := a.historyRepo()
		if err != nil {
			a.log.WithError(err).Warn("Capture history disabled")
		} else {
			opts = append(opts, service.WithHistory(repo))
		}
	}

	term := display.NewTerminal(a.p.out, a.cfg.Display.Width, a.cfg.Display.Height)
	return service.NewMaterializer(storage.NewLocalStorage(), term, a.log, opts...)
}
