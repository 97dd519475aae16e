package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/garage-invoices/internal/config"
	"github.com/diewo77/garage-invoices/internal/export"
	"github.com/diewo77/garage-invoices/internal/handlers"
	"github.com/diewo77/garage-invoices/internal/httpx"
	"github.com/diewo77/garage-invoices/internal/ledger"
	"github.com/diewo77/garage-invoices/internal/pdf"
	"github.com/diewo77/garage-invoices/internal/services"
	"github.com/diewo77/garage-invoices/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, log *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	st := store.New(db)
	ih := handlers.NewInvoiceHandler(st, log)
	mux.HandleFunc("GET /api/invoices", ih.List)
	mux.HandleFunc("POST /api/invoices", ih.Create)
	mux.HandleFunc("PUT /api/invoices/{id}", ih.Update)
	mux.HandleFunc("DELETE /api/invoices/{id}", ih.Delete)

	eh := &handlers.ExportHandler{
		Store:  st,
		Ledger: ledger.New(cfg.LedgerFile, cfg.Currency.Symbol),
		Renderer: pdf.New(pdf.Options{
			IssuerName:     cfg.IssuerName,
			IssuerLine:     cfg.IssuerLine,
			CurrencySymbol: cfg.Currency.Symbol,
		}),
		Snaps:    export.NewSnapshotWriter(cfg.ExportDir),
		Totals:   services.TotalsConfig{TVARate: cfg.TVARate, StampFee: cfg.StampFee},
		Currency: cfg.Currency,
		Log:      log,
	}
	mux.HandleFunc("POST /api/export/json", eh.JSON)
	mux.HandleFunc("POST /api/export/spreadsheet", eh.Spreadsheet)
	mux.HandleFunc("POST /api/export/pdf", eh.PDF)

	return withRecover(withLogging(mux, log), log)
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func withRecover(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Error("handler panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
