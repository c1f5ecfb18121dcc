package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/config"
	"github.com/Rorical/LeafDesk/internal/core"
	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/dispatcher"
	"github.com/Rorical/LeafDesk/internal/eventbus"
	"github.com/Rorical/LeafDesk/internal/gateway"
	"github.com/Rorical/LeafDesk/internal/logging"
	"github.com/Rorical/LeafDesk/internal/metrics"
	"github.com/Rorical/LeafDesk/internal/models"
	"github.com/Rorical/LeafDesk/internal/page"
	"github.com/Rorical/LeafDesk/internal/update"
	"github.com/Rorical/LeafDesk/internal/widgets"
)

const logFileName = "leafdesk.log"

// Options select what the session opens on.
type Options struct {
	PagePath    string
	View        models.View
	DiagnosisID string
	Admin       bool
	MetricsAddr string
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     *slog.Logger
	logFile    *os.File
	registry   *prometheus.Registry
	client     *gateway.Client
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.Service
	model      *AppModel
	opts       Options
	cancel     context.CancelFunc
}

func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	profile := cfg.Current()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", cfg.ActiveProfile, err)
	}

	logFile, err := logging.OpenFile(filepath.Join(cfg.Dir(), logFileName))
	if err != nil {
		return nil, err
	}
	logger := logging.Init("leafdesk", logFile)

	manifest, err := page.Load(opts.PagePath)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	reg := metrics.NewRegistry()
	client := gateway.New(profile.BaseURL,
		gateway.WithTimeout(profile.Timeout()),
		gateway.WithSessionCookie(profile.SessionCookie),
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics.NewGateway(reg)),
	)

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", "op", e.Operation, "err", e.Err)
	})
	disp := dispatcher.NewEventDispatcher(eb, logger)
	service := core.NewService(client, eb, logger)

	appModel := models.NewAppModel(dialog.New(), models.Page{
		Panels:  manifest.Panels(),
		Users:   manifest.UserRows(),
		Logbook: manifest.LogEntries(),
	}, time.Now)
	appModel.Profile = cfg.ActiveProfile
	appModel.Admin = opts.Admin
	appModel.View = opts.View
	if opts.DiagnosisID != "" {
		if appModel.PanelByID(opts.DiagnosisID) == nil {
			logFile.Close()
			return nil, fmt.Errorf("diagnosis %q is not in the page manifest", opts.DiagnosisID)
		}
		for i, p := range appModel.Panels {
			if p.ID == opts.DiagnosisID {
				appModel.PanelCursor = i
			}
		}
	}

	b := bindings.New(appModel.Dialog, disp,
		bindings.WithLogger(logger),
		bindings.WithNotifier(func(note string) { appModel.Status = note }),
	)
	update.Wire(appModel, b)

	return &Application{
		config:     cfg,
		logger:     logger,
		logFile:    logFile,
		registry:   reg,
		client:     client,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		opts:       opts,
		model: &AppModel{
			appModel:   appModel,
			dispatcher: disp,
			deps: update.Deps{
				Bindings:   b,
				Dispatcher: disp,
				Keys:       update.DefaultKeyMap(),
				Logger:     logger,
			},
		},
	}, nil
}

func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	if app.opts.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, app.opts.MetricsAddr, app.registry); err != nil {
				app.logger.Error("metrics listener failed", "err", err)
			}
		}()
	}

	app.service.Start()
	if err := app.dispatcher.Load(app.opts.Admin); err != nil {
		app.logger.Error("initial load not dispatched", "err", err)
	}
	app.logger.Info("session started", "profile", app.config.ActiveProfile, "base_url", app.client.BaseURL())

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	if app.cancel != nil {
		app.cancel()
	}
	app.eventBus.Close()
	app.service.Stop()
	app.logger.Info("session ended")
	app.logFile.Close()
}

// PrintTasks writes the tasks due on day without starting the UI.
func PrintTasks(ctx context.Context, w io.Writer, day time.Time) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	profile := cfg.Current()
	client := gateway.New(profile.BaseURL,
		gateway.WithTimeout(profile.Timeout()),
		gateway.WithSessionCookie(profile.SessionCookie),
	)
	return printTasks(ctx, w, client, day)
}

type eventSource interface {
	CalendarEvents(ctx context.Context) ([]gateway.CalendarEvent, error)
}

func printTasks(ctx context.Context, w io.Writer, src eventSource, day time.Time) error {
	events, err := src.CalendarEvents(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	cal := widgets.NewCalendar(func() time.Time { return day })
	cal.SetEvents(events)
	rows := cal.TaskRows(day)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tasks for", day.Format("Mon 2 Jan 2006"))
		return nil
	}
	for _, r := range rows {
		mark := " "
		if r.Completed {
			mark = "x"
		}
		when := "all day"
		if !r.AllDay {
			when = r.Due.Format("15:04")
		}
		fmt.Fprintf(w, "[%s] %-8s %s  (id %s)\n", mark, when, r.Title, r.ID)
	}
	return nil
}
