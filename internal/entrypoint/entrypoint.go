package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/postbrowser/internal/config"
	"github.com/mrlokans/postbrowser/internal/database"
	"github.com/mrlokans/postbrowser/internal/database/favourites"
	"github.com/mrlokans/postbrowser/internal/database/history"
	"github.com/mrlokans/postbrowser/internal/events"
	http_controllers "github.com/mrlokans/postbrowser/internal/http"
	"github.com/mrlokans/postbrowser/internal/postapi"
	"github.com/mrlokans/postbrowser/internal/scheduler"
	"github.com/mrlokans/postbrowser/internal/session"
	"github.com/mrlokans/postbrowser/internal/tasks"
)

// Scheduled job names.
const (
	JobSessionSweep   = "session_sweep"
	JobHistoryCleanup = "history_cleanup"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Services holds everything built from a Config.
type Services struct {
	DB           *database.Database
	Sites        *postapi.Registry
	Bus          *events.Bus
	Favourites   *favourites.Repository
	History      *history.Repository
	Sessions     *session.Manager
	Scheduler    *scheduler.Scheduler
	HistoryQueue *tasks.HistoryQueue
}

// Build opens storage and wires sites, sessions, background tasks and the
// scheduler. Call Close when done.
func Build(cfg *config.Config) (*Services, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	extraSites, err := postapi.LoadExtraSites(cfg.Sites.File)
	if err != nil {
		db.Close()
		return nil, err
	}

	// One pooled client shared by every site.
	httpClient := &http.Client{Timeout: cfg.Sites.RequestTimeout}
	registry, err := postapi.NewDefaultRegistry(postapi.Options{
		HTTPClient:      httpClient,
		UserAgent:       cfg.Sites.UserAgent,
		RequestTimeout:  cfg.Sites.RequestTimeout,
		RequestInterval: cfg.Sites.RequestInterval,
		MaxSuggestions:  cfg.Autocomplete.MaxSuggestions,
	}, cfg.Sites.Enabled, extraSites...)
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, c := range registry.Clients() {
		log.Printf("[SITE] Registered %s (autocomplete: %v)", c.DisplayName(), c.HasAutocomplete())
	}

	s := &Services{
		DB:         db,
		Sites:      registry,
		Bus:        events.NewBus(),
		Favourites: favourites.NewRepository(db.DB),
		History:    history.NewRepository(db.DB),
		Scheduler:  scheduler.New(),
	}
	s.Sessions = session.NewManager(registry, s.Favourites, s.Bus)

	cleanupHistory := func(ctx context.Context) {
		retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
		if _, err := s.History.DeleteOlderThan(ctx, retention); err != nil {
			log.Printf("[SCHEDULER] %s: %v", JobHistoryCleanup, err)
		}
	}

	if cfg.Tasks.Enabled {
		s.HistoryQueue, err = tasks.OpenHistoryQueue(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, s.History)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		s.Bus.Subscribe(tasks.EnqueueFavouriteEvents(s.HistoryQueue))

		cleanupHistory = func(context.Context) {
			if _, err := s.HistoryQueue.EnqueueCleanup(cfg.History.RetentionDays); err != nil {
				log.Printf("[SCHEDULER] %s: %v", JobHistoryCleanup, err)
			}
		}
	} else {
		log.Printf("[TASK] Queue disabled, favourite history is written inline")
		s.Bus.Subscribe(tasks.RecordFavouriteEvents(s.History))
	}

	jobs := []scheduler.Job{
		{
			Name:     JobSessionSweep,
			Schedule: cfg.Sessions.SweepSchedule,
			Run: func(context.Context) {
				if n := s.Sessions.ReapIdle(cfg.Sessions.IdleTTL); n > 0 {
					log.Printf("[SESSION] Expired %d idle sessions", n)
				}
			},
		},
		{
			Name:     JobHistoryCleanup,
			Schedule: cfg.History.CleanupSchedule,
			Run:      cleanupHistory,
		},
	}
	for _, job := range jobs {
		if err := s.Scheduler.Add(job); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// Start launches the task workers and the scheduler.
func (s *Services) Start(ctx context.Context) {
	if s.HistoryQueue != nil {
		go s.HistoryQueue.Start(ctx)
	}
	s.Scheduler.Start(ctx)
}

// Stop halts background work, waiting up to ctx's deadline for tasks.
func (s *Services) Stop(ctx context.Context) {
	s.Scheduler.Stop()
	s.Sessions.Close()
	if s.HistoryQueue != nil {
		s.HistoryQueue.Stop(ctx)
	}
}

// Close releases storage handles. Call after Stop.
func (s *Services) Close() {
	if s.HistoryQueue != nil {
		if err := s.HistoryQueue.Close(); err != nil {
			log.Printf("Error closing history queue: %v", err)
		}
	}
	if err := s.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func Run(cfg *config.Config, version string) {
	services, err := Build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer services.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	services.Start(ctx)

	routerCfg := http_controllers.RouterConfig{
		Sessions:        services.Sessions,
		Sites:           services.Sites,
		Database:        services.DB,
		SessionCounter:  services.Sessions,
		FavouritesStore: services.Favourites,
		Events:          services.Bus,
		History:         services.History,
		Version:         version,
	}
	if services.HistoryQueue != nil {
		routerCfg.HistoryQueue = services.HistoryQueue
	}
	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		services.Stop(ctx)
		cancel()
	}

	Serve(router, cfg, onShutdown)
}
