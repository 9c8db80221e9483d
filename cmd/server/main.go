package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"eldercare/internal/api"
	"eldercare/internal/auth"
	"eldercare/internal/repository"
	"eldercare/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

const stalePendingAge = 24 * time.Hour

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	dirRepo := repository.NewDirectoryRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	sender := service.NewSenderService()
	bookingSvc := service.NewBookingService(bookingRepo, dirRepo, sender)
	providerSvc := service.NewProviderService(providerRepo, dirRepo)
	matchingSvc := service.NewMatchingService(providerRepo)
	availabilitySvc := service.NewAvailabilityService(dirRepo, bookingRepo)
	jobSvc := service.NewJobService(jobRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc)
	providerHandler := api.NewProviderHandler(providerSvc, matchingSvc, availabilitySvc)
	adminHandler := api.NewAdminHandler(bookingSvc, providerSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.CompleteElapsedBookings(); err != nil {
			log.Printf("Error completing elapsed bookings: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.CancelStalePendingBookings(time.Now().Add(-stalePendingAge)); err != nil {
			log.Printf("Error cancelling stale pending bookings: %v", err)
		}
	})
	c.Start()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings", bookingHandler.ListBookings).Methods("GET")
	r.HandleFunc("/api/bookings/upcoming", bookingHandler.UpcomingBookings).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", bookingHandler.UpdateBooking).Methods("PUT")
	r.HandleFunc("/api/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/bookings/{id}/status", bookingHandler.UpdateBookingStatus).Methods("PUT")

	r.HandleFunc("/api/providers", providerHandler.ListProviders).Methods("GET")
	r.HandleFunc("/api/providers/search", providerHandler.SearchProviders).Methods("POST")
	r.HandleFunc("/api/providers/{id}", providerHandler.GetProvider).Methods("GET")
	r.HandleFunc("/api/providers/{id}/availability", providerHandler.GetAvailability).Methods("GET")
	r.HandleFunc("/api/providers/{id}/reviews", providerHandler.ListReviews).Methods("GET")

	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/admins", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/providers/{id}/verify", adminHandler.VerifyProvider).Methods("PUT")

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
