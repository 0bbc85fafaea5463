package serverapp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/Gregos2215/gestapp-sub000/internal/alert"
	"github.com/Gregos2215/gestapp-sub000/internal/auth"
	"github.com/Gregos2215/gestapp-sub000/internal/config"
	"github.com/Gregos2215/gestapp-sub000/internal/httpmw"
	"github.com/Gregos2215/gestapp-sub000/internal/message"
	"github.com/Gregos2215/gestapp-sub000/internal/report"
	"github.com/Gregos2215/gestapp-sub000/internal/resident"
	"github.com/Gregos2215/gestapp-sub000/internal/server"
	"github.com/Gregos2215/gestapp-sub000/internal/task"
	"github.com/Gregos2215/gestapp-sub000/internal/telemetry"
	staticfiles "github.com/Gregos2215/gestapp-sub000/static"
	"github.com/Gregos2215/gestapp-sub000/ui/page"
)

type Options struct {
	Config        *config.Config
	DataDir       string
	StaticDir     string
	UseDiskStatic bool
	Logger        *slog.Logger

	// StartScanner controls the overdue alert cron. Tests turn it off.
	StartScanner bool
}

// NewHandler builds the whole console: stores, services, API routes,
// pages, middleware.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = cfg.Server.DataDir
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = cfg.Server.StaticDir
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	// Some services still take a printf-style logger.
	plainLogger := slog.NewLogLogger(opts.Logger.Handler(), slog.LevelInfo)

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	// ---- stores and services ----

	events := telemetry.NewMemoryRepository()
	center := alert.NewCenter()

	authRepo, err := auth.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(authRepo, plainLogger, auth.ServiceOptions{
		OTPTTL:         time.Duration(cfg.Auth.OTPTTLMinutes) * time.Minute,
		SessionTTL:     time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
		MaxOTPAttempts: cfg.Auth.MaxOTPAttempts,
	})
	authHandler := auth.NewHandler(authService)
	authHandler.Events = events

	taskRepo, err := task.OpenSQLiteRepo(filepath.Join(opts.DataDir, "tasks.db"))
	if err != nil {
		return nil, err
	}
	feed := task.NewFeed()
	taskService := task.NewService(task.ServiceOptions{
		Repo:   taskRepo,
		Feed:   feed,
		Alerts: center,
		Events: events,
		Logger: plainLogger,
	})
	taskHandler := task.NewHandler(taskService, feed, cfg.Tasks.PageSize)

	residentRepo, err := resident.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	residentHandler := resident.NewHandler(residentRepo)

	reportRepo, err := report.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	reportHandler := report.NewHandler(reportRepo)
	reportHandler.Events = events

	messageRepo, err := message.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	messageHandler := message.NewHandler(messageRepo, center)
	messageHandler.Events = events

	alertHandler := alert.NewHandler(center)

	if opts.StartScanner {
		scanner := alert.NewScanner(taskRepo, center,
			time.Duration(cfg.Alerts.OverdueGraceMinutes)*time.Minute, opts.Logger)
		scanner.Events = events
		if err := scanner.Start(cfg.Alerts.ScanSpec); err != nil {
			return nil, err
		}
	}

	// ---- API routes ----

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		wrapped := authService.RequireAPI(h)
		return wrapped.ServeHTTP
	}

	server.Handle(mux, rr, "POST /api/auth/request-otp", "Request a one-time sign-in code", `{"email":"nadia@example.com"}`, authHandler.RequestOTP)
	server.Handle(mux, rr, "POST /api/auth/verify-otp", "Exchange a code for a session cookie", `{"email":"nadia@example.com","code":"123456"}`, authHandler.VerifyOTP)
	server.Handle(mux, rr, "GET /api/auth/session", "Describe the current session", "", authHandler.Session)
	server.Handle(mux, rr, "PATCH /api/auth/profile", "Update the signed-in user's display name", `{"displayName":"Nadia"}`, protected(authHandler.UpdateProfile))
	server.Handle(mux, rr, "POST /api/auth/logout", "Revoke the current session", "", authHandler.Logout)

	server.Handle(mux, rr, "GET /api/tasks", "List tasks for a view (filter, date, q, page)", "", protected(taskHandler.View))
	server.Handle(mux, rr, "POST /api/tasks", "Create a task", `{"name":"Physio","dueDate":"2026-03-02T09:30:00Z","recurrence":"weekly"}`, protected(taskHandler.Create))
	server.Handle(mux, rr, "GET /api/tasks/live", "Task snapshot event stream", "", protected(taskHandler.Stream))
	server.Handle(mux, rr, "GET /api/tasks/{id}", "Fetch one task", "", protected(taskHandler.Get))
	server.Handle(mux, rr, "PATCH /api/tasks/{id}", "Update task fields", `{"name":"Physio (pool)"}`, protected(taskHandler.Update))
	server.Handle(mux, rr, "DELETE /api/tasks/{id}", "Soft-delete a task series", "", protected(taskHandler.Delete))
	server.Handle(mux, rr, "POST /api/tasks/{id}/complete", "Complete an occurrence", `{"day":"2026-03-09"}`, protected(taskHandler.Complete))
	server.Handle(mux, rr, "POST /api/tasks/{id}/occurrences/remove", "Remove one occurrence from a series", `{"day":"2026-03-09"}`, protected(taskHandler.RemoveOccurrence))
	server.Handle(mux, rr, "GET /api/tasks/{id}/calendar.ics", "Export a task as an iCalendar event", "", protected(taskHandler.Calendar))

	server.Handle(mux, rr, "GET /api/residents", "List residents", "", protected(residentHandler.List))
	server.Handle(mux, rr, "POST /api/residents", "Create a resident", `{"firstName":"Marie","lastName":"Dupont","room":"12B"}`, protected(residentHandler.Create))
	server.Handle(mux, rr, "GET /api/residents/{id}", "Fetch one resident", "", protected(residentHandler.Get))
	server.Handle(mux, rr, "PATCH /api/residents/{id}", "Update resident fields", `{"room":"14A"}`, protected(residentHandler.Update))

	server.Handle(mux, rr, "GET /api/reports", "List reports, optionally per resident", "", protected(reportHandler.List))
	server.Handle(mux, rr, "POST /api/reports", "Post a report", `{"title":"Night handover","body":"Quiet night."}`, protected(reportHandler.Create))
	server.Handle(mux, rr, "PATCH /api/reports/{id}", "Edit a report", `{"body":"Updated."}`, protected(reportHandler.Update))
	server.Handle(mux, rr, "DELETE /api/reports/{id}", "Delete a report", "", protected(reportHandler.Delete))

	server.Handle(mux, rr, "GET /api/messages", "List staff messages", "", protected(messageHandler.List))
	server.Handle(mux, rr, "POST /api/messages", "Post a staff message", `{"body":"Fridge in unit B is down"}`, protected(messageHandler.Create))
	server.Handle(mux, rr, "POST /api/messages/{id}/read", "Mark a message read for the signed-in user", "", protected(messageHandler.MarkRead))
	server.Handle(mux, rr, "DELETE /api/messages/{id}", "Delete a staff message", "", protected(messageHandler.Delete))

	server.Handle(mux, rr, "GET /api/alerts", "List alerts (?all=true for history)", "", protected(alertHandler.List))
	server.Handle(mux, rr, "POST /api/alerts/{id}/read", "Mark an alert read", "", protected(alertHandler.MarkRead))

	server.Handle(mux, rr, "GET /api/stats", "Activity stats since a date (?since=2026-03-01)", "", protected(func(w http.ResponseWriter, r *http.Request) {
		since := time.Now().AddDate(0, 0, -30)
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "since must be YYYY-MM-DD"})
				return
			}
			since = parsed
		}
		evts, err := events.GetEvents(since, nil)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		stats, err := telemetry.CalculateStats(evts, since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}))

	server.Handle(mux, rr, "GET /api/config", "Dump the effective configuration", "", protected(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))

	// ---- health ----

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "gestapp",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := taskRepo.List(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		if _, err := residentRepo.List(true); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "resident storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "gestapp",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	// ---- pages ----

	mux.Handle("/{$}", templ.Handler(page.HomePage()))
	mux.Handle("/login", templ.Handler(page.LoginPage()))
	mux.HandleFunc("/app", authService.HandleAppRoute)
	mux.Handle("/tasks", authService.RequirePage(templ.Handler(page.TasksPage())))
	mux.Handle("/residents", authService.RequirePage(templ.Handler(page.ResidentsPage())))
	mux.Handle("/reports", authService.RequirePage(templ.Handler(page.ReportsPage())))
	mux.Handle("/messages", authService.RequirePage(templ.Handler(page.MessagesPage())))

	server.RegisterAdminUI(mux, rr, portFromAddr(cfg.Server.Addr))

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GESTAPP_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func portFromAddr(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
