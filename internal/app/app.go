package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/handlers"
	"github.com/ternarybob/paraulins/internal/interfaces"
	"github.com/ternarybob/paraulins/internal/services/audio"
	imagesvc "github.com/ternarybob/paraulins/internal/services/image"
	"github.com/ternarybob/paraulins/internal/services/imagesearch"
	"github.com/ternarybob/paraulins/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Store    interfaces.ChildStore
	Audio    interfaces.AudioStore
	Images   interfaces.ImageStore
	Searcher interfaces.ImageSearcher

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	ChildHandler  *handlers.ChildHandler
	WordHandler   *handlers.WordHandler
	MediaHandler  *handlers.MediaHandler
	SearchHandler *handlers.SearchHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	store, err := storage.NewStore(cfg.Storage.DataFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open child store: %w", err)
	}
	app.Store = store

	app.Audio = audio.NewService(audio.Config{
		BaseDir:     cfg.Storage.AudioDir,
		MaxFileSize: cfg.Media.MaxAudioSize,
		FFmpegPath:  cfg.Media.FFmpegPath,
		FFprobePath: cfg.Media.FFprobePath,
	}, logger)

	app.Images = imagesvc.NewService(imagesvc.Config{
		BaseDir:     cfg.Storage.ImagesDir,
		MaxFileSize: cfg.Media.MaxImageSize,
		TargetSize:  cfg.Media.ImageTargetSize,
		JPEGQuality: cfg.Media.JPEGQuality,
	}, logger)

	app.Searcher = imagesearch.NewService(imagesearch.Config{
		APIURL:          cfg.Search.APIURL,
		APIKey:          cfg.Search.APIKey,
		PerPage:         cfg.Search.PerPage,
		SafeSearch:      cfg.Search.SafeSearch,
		MaxDownloadSize: cfg.Media.MaxImageSize,
	}, app.Images, logger)

	app.APIHandler = handlers.NewAPIHandler()
	app.ChildHandler = handlers.NewChildHandler(app.Store, logger)
	app.WordHandler = handlers.NewWordHandler(app.Store, app.Audio, app.Images, app.Searcher, logger)
	app.MediaHandler = handlers.NewMediaHandler(app.Audio, app.Images, logger)
	app.SearchHandler = handlers.NewSearchHandler(app.Searcher, logger)

	logger.Info().
		Str("data_dir", cfg.Storage.DataDir).
		Str("data_file", cfg.Storage.DataFile).
		Msg("Application initialized")

	return app, nil
}
