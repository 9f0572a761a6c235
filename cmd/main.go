package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/condovia/api-estates/internal/auth"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/fee"
	"github.com/condovia/api-estates/internal/logger"
	"github.com/condovia/api-estates/internal/middleware"
	"github.com/condovia/api-estates/internal/payment"
	"github.com/condovia/api-estates/internal/report"
	"github.com/condovia/api-estates/internal/utils/db"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	database, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := estate.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("estate migration failed")
	}
	if err := fee.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("fee migration failed")
	}
	if err := payment.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("payment migration failed")
	}

	// Repositories and services
	estateRepo := estate.NewRepository(database)
	feeRepo := fee.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	reportRepo := report.NewRepository(database)

	feeService := fee.NewService(feeRepo, estateRepo, log)
	paymentService := payment.NewService(paymentRepo, feeRepo, estateRepo, log)
	reportService := report.NewService(reportRepo)

	// Handlers
	estateHandler := estate.NewHandler(database)
	feeHandler := fee.NewHandler(feeService, estateRepo)
	paymentHandler := payment.NewHandler(paymentService, estateRepo)
	reportHandler := report.NewHandler(reportService, estateRepo)

	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/login", estateHandler.Login).Methods("POST")
	// Callback for the external receipt renderer
	r.HandleFunc("/receipts/{id}/document", paymentHandler.UpdateDocument).Methods("PATCH")

	// Authenticated API
	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.Middleware)

	// Estates, units, actors
	api.HandleFunc("/estates", estateHandler.CreateEstate).Methods("POST")
	api.HandleFunc("/estates", estateHandler.ListEstates).Methods("GET")
	api.HandleFunc("/estates/{id}", estateHandler.GetEstate).Methods("GET")
	api.HandleFunc("/estates/{id}/units", estateHandler.CreateUnit).Methods("POST")
	api.HandleFunc("/estates/{id}/units", estateHandler.ListUnits).Methods("GET")
	api.HandleFunc("/units/{id}", estateHandler.UpdateUnit).Methods("PUT")
	api.HandleFunc("/actors", estateHandler.CreateActor).Methods("POST")
	api.HandleFunc("/actors", estateHandler.ListActors).Methods("GET")

	// Fees and assignments
	api.HandleFunc("/estates/{id}/fees", feeHandler.CreateFee).Methods("POST")
	api.HandleFunc("/estates/{id}/fees", feeHandler.ListFees).Methods("GET")
	api.HandleFunc("/fees/{id}", feeHandler.GetFee).Methods("GET")
	api.HandleFunc("/fees/{id}", feeHandler.DeleteFee).Methods("DELETE")
	api.HandleFunc("/fees/{id}/assignments", feeHandler.AssignUnits).Methods("POST")
	api.HandleFunc("/fees/{id}/assignments", feeHandler.ListAssignments).Methods("GET")
	api.HandleFunc("/assignments/{id}", feeHandler.DeleteAssignment).Methods("DELETE")

	// Payments and receipts
	api.HandleFunc("/assignments/{id}/payments", paymentHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/payments/{id}", paymentHandler.GetPayment).Methods("GET")
	api.HandleFunc("/payments/{id}", paymentHandler.DeletePayment).Methods("DELETE")
	api.HandleFunc("/payments/{id}/receipt", paymentHandler.LookupReceipt).Methods("GET")

	// Reports
	api.HandleFunc("/fees/{id}/status", reportHandler.FeePaymentStatus).Methods("GET")
	api.HandleFunc("/estates/{id}/reports/summary", reportHandler.EstateSummary).Methods("GET")
	api.HandleFunc("/reports/summary", reportHandler.OverallSummary).Methods("GET")

	chain := middleware.Recovery(log)(middleware.Logging(log)(r))
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(chain)

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
