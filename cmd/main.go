package main

import (
	"net/http"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"gpatracker/internal/config"
	"gpatracker/internal/database"
	"gpatracker/internal/handler"
	"gpatracker/internal/logger"
	"gpatracker/internal/service"
	"gpatracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(log.NewLogfmtLogger(os.Stderr), "failed to load config", err)
	}

	lg, err := logger.New(cfg.LogDir)
	if err != nil {
		fatal(log.NewLogfmtLogger(os.Stderr), "failed to create logger", err)
	}

	// Initialize record store
	recordStore, err := openStore(cfg)
	if err != nil {
		fatal(lg, "failed to open record store", err)
	}
	if err := recordStore.EnsureInitialized(); err != nil {
		fatal(lg, "failed to initialize record store", err)
	}

	// Initialize services
	recordService := service.NewRecordService(recordStore)
	importService := service.NewImportService(recordService, lg)

	// Initialize handlers
	recordHandler := handler.NewRecordHandler(recordService, lg)
	chartHandler := handler.NewChartHandler(recordService, lg)
	uploadHandler := handler.NewUploadHandler(importService, cfg.MaxUploadMB<<20, lg)
	progressHandler := handler.NewProgressHandler(importService, lg)

	// Setup router
	r := mux.NewRouter()

	r.HandleFunc("/", recordHandler.Index).Methods("GET")
	r.HandleFunc("/submit", recordHandler.Submit).Methods("POST")
	r.HandleFunc("/reset-graph", recordHandler.Reset).Methods("POST")
	r.HandleFunc("/graph.png", chartHandler.GraphPNG).Methods("GET")
	r.HandleFunc("/records.csv", recordHandler.ExportCSV).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", recordHandler.ListRecords).Methods("GET")
	api.HandleFunc("/records", recordHandler.CreateRecord).Methods("POST")
	api.HandleFunc("/trend", chartHandler.Trend).Methods("GET")
	api.HandleFunc("/reset", recordHandler.ResetRecords).Methods("POST")

	r.HandleFunc("/import", uploadHandler.UploadCSV).Methods("POST")
	r.HandleFunc("/import/progress", progressHandler.GetAllProgress).Methods("GET")
	r.HandleFunc("/import/progress/file", progressHandler.GetFileProgress).Methods("GET")

	// Start server
	level.Info(lg).Log("msg", "server running", "addr", cfg.Addr, "store", cfg.StoreDriver)
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	if err := http.ListenAndServe(cfg.Addr, cors(r)); err != nil {
		fatal(lg, "server stopped", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverCSV {
		return store.NewCSVStore(cfg.DataFile), nil
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewDBStore(db), nil
}

func fatal(lg log.Logger, msg string, err error) {
	level.Error(lg).Log("msg", msg, "err", err)
	os.Exit(1)
}
