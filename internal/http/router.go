package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"abarrotes-backend/internal/handlers"
	"abarrotes-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	productHandler *handlers.ProductHandler,
	cashCutHandler *handlers.CashCutHandler,
	importHandler *handlers.ImportHandler,
	chatHandler *handlers.ChatHandler,
	avatarHandler *handlers.AvatarHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/password-reset", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/auth/biometric/register", authHandler.BiometricRegister).Methods("POST")
	r.HandleFunc("/auth/biometric/login", authHandler.BiometricLogin).Methods("POST")

	// Protected API routes - Profile
	profileAPI := r.PathPrefix("/api/me").Subrouter()
	profileAPI.Use(authMiddleware.Authenticate)
	profileAPI.HandleFunc("", authHandler.Me).Methods("GET")
	profileAPI.HandleFunc("/avatar", avatarHandler.Generate).Methods("POST")

	// Protected API routes - Accounts and movements
	accountsAPI := r.PathPrefix("/api/accounts").Subrouter()
	accountsAPI.Use(authMiddleware.Authenticate)
	accountsAPI.HandleFunc("", accountHandler.List).Methods("GET")
	accountsAPI.HandleFunc("", accountHandler.Create).Methods("POST")
	accountsAPI.HandleFunc("/{id}", accountHandler.Get).Methods("GET")
	accountsAPI.HandleFunc("/{id}", accountHandler.Update).Methods("PUT")
	accountsAPI.Handle("/{id}", authMiddleware.RequireOwner(http.HandlerFunc(accountHandler.Delete))).Methods("DELETE")
	accountsAPI.HandleFunc("/{id}/movements", accountHandler.ListAccountMovements).Methods("GET")

	movementsAPI := r.PathPrefix("/api/movements").Subrouter()
	movementsAPI.Use(authMiddleware.Authenticate)
	movementsAPI.HandleFunc("", accountHandler.ListMovements).Methods("GET")
	movementsAPI.HandleFunc("", accountHandler.PostMovement).Methods("POST")

	// Protected API routes - Catalog
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.List).Methods("GET")
	productsAPI.HandleFunc("", productHandler.Save).Methods("POST")
	productsAPI.HandleFunc("/search", productHandler.Search).Methods("GET")
	productsAPI.HandleFunc("/semantic-search", productHandler.SemanticSearch).Methods("POST")
	productsAPI.Handle("/import", authMiddleware.RequireOwner(http.HandlerFunc(importHandler.Upload))).Methods("POST")
	productsAPI.HandleFunc("/{key}", productHandler.Get).Methods("GET")
	productsAPI.HandleFunc("/{key}", productHandler.Delete).Methods("DELETE")
	productsAPI.HandleFunc("/{key}/reprice", productHandler.Reprice).Methods("POST")

	// Protected API routes - Cash cuts
	cashCutsAPI := r.PathPrefix("/api/cash-cuts").Subrouter()
	cashCutsAPI.Use(authMiddleware.Authenticate)
	cashCutsAPI.HandleFunc("", cashCutHandler.History).Methods("GET")
	cashCutsAPI.HandleFunc("", cashCutHandler.Close).Methods("POST")
	cashCutsAPI.HandleFunc("/preview", cashCutHandler.Preview).Methods("POST")
	cashCutsAPI.HandleFunc("/parse-text", cashCutHandler.ParseText).Methods("POST")
	cashCutsAPI.HandleFunc("/{id}", cashCutHandler.Get).Methods("GET")
	cashCutsAPI.HandleFunc("/{id}/report.pdf", cashCutHandler.Report).Methods("GET")

	// Protected API routes - Assistant chat
	chatAPI := r.PathPrefix("/api/chat").Subrouter()
	chatAPI.Use(authMiddleware.Authenticate)
	chatAPI.HandleFunc("", chatHandler.Ask).Methods("POST")
	chatAPI.HandleFunc("/reset", chatHandler.Reset).Methods("POST")

	// Protected API routes - Notifications
	notifyAPI := r.PathPrefix("/api/notifications").Subrouter()
	notifyAPI.Use(authMiddleware.Authenticate)
	notifyAPI.HandleFunc("", notificationHandler.Feed).Methods("GET")
	notifyAPI.HandleFunc("/poll", notificationHandler.Poll).Methods("POST")
	notifyAPI.HandleFunc("/topic", notificationHandler.Topic).Methods("GET")
	notifyAPI.HandleFunc("/stream", notificationHandler.Stream).Methods("GET")

	return r
}
