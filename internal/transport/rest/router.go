package rest

import (
	"net/http"

	"realtyflow/internal/config"
	"realtyflow/internal/service"
	"realtyflow/internal/transport/rest/handler"
	"realtyflow/internal/transport/rest/middleware"
	"realtyflow/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	WizardService     *service.WizardService
	DashboardService  *service.DashboardService
	AutomationService *service.AutomationService
	WSHub             *ws.Hub
	CORS              config.CORSConfig
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	wizardHandler := handler.NewWizardHandler(c.WizardService)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService)
	automationHandler := handler.NewAutomationHandler(c.AutomationService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.Logging(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws", wsHandler.AgentWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Agent routes (require agent auth)
	agent := v1.NewRoute().Subrouter()
	agent.Use(authMW.RequireAgent)

	agent.HandleFunc("/auth/signout", authHandler.SignOut).Methods("POST", "OPTIONS")

	// Questionnaires and wizard sessions
	agent.HandleFunc("/questionnaires", wizardHandler.ListQuestionnaires).Methods("GET", "OPTIONS")
	agent.HandleFunc("/questionnaires/{questionnaireId}", wizardHandler.GetQuestionnaire).Methods("GET", "OPTIONS")
	agent.HandleFunc("/wizards", wizardHandler.Start).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards", wizardHandler.List).Methods("GET", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}", wizardHandler.Get).Methods("GET", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}", wizardHandler.Cancel).Methods("DELETE", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/answers/{questionId}", wizardHandler.SetAnswer).Methods("PUT", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/answers/{questionId}/toggle", wizardHandler.Toggle).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/next", wizardHandler.Advance).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/back", wizardHandler.Retreat).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/save", wizardHandler.Save).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/restore", wizardHandler.Restore).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/reset", wizardHandler.Reset).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/submit", wizardHandler.Submit).Methods("POST", "OPTIONS")
	agent.HandleFunc("/wizards/{sessionId}/submission", wizardHandler.Submission).Methods("GET", "OPTIONS")

	// Dashboard tables
	agent.HandleFunc("/leads", dashboardHandler.ListLeads).Methods("GET", "OPTIONS")
	agent.HandleFunc("/leads/bulk-delete", dashboardHandler.BulkDeleteLeads).Methods("POST", "OPTIONS")
	agent.HandleFunc("/leads/{id}", dashboardHandler.GetLead).Methods("GET", "OPTIONS")
	agent.HandleFunc("/leads/{id}", dashboardHandler.DeleteLead).Methods("DELETE", "OPTIONS")
	agent.HandleFunc("/leads/{id}/status", dashboardHandler.UpdateLeadStatus).Methods("PATCH", "OPTIONS")
	agent.HandleFunc("/comments", dashboardHandler.ListComments).Methods("GET", "OPTIONS")
	agent.HandleFunc("/comments/bulk-delete", dashboardHandler.BulkDeleteComments).Methods("POST", "OPTIONS")
	agent.HandleFunc("/comments/{id}", dashboardHandler.GetComment).Methods("GET", "OPTIONS")
	agent.HandleFunc("/comments/{id}", dashboardHandler.DeleteComment).Methods("DELETE", "OPTIONS")
	agent.HandleFunc("/comments/{id}/reply", dashboardHandler.ReplyToComment).Methods("POST", "OPTIONS")
	agent.HandleFunc("/posts", dashboardHandler.ListPosts).Methods("GET", "OPTIONS")
	agent.HandleFunc("/posts", dashboardHandler.CreatePost).Methods("POST", "OPTIONS")
	agent.HandleFunc("/posts/bulk-delete", dashboardHandler.BulkDeletePosts).Methods("POST", "OPTIONS")
	agent.HandleFunc("/posts/{id}", dashboardHandler.GetPost).Methods("GET", "OPTIONS")
	agent.HandleFunc("/posts/{id}", dashboardHandler.DeletePost).Methods("DELETE", "OPTIONS")

	// Automation
	agent.HandleFunc("/automation/enhance", automationHandler.Enhance).Methods("POST", "OPTIONS")
	agent.HandleFunc("/automation/generate", automationHandler.Generate).Methods("POST", "OPTIONS")
	agent.HandleFunc("/automation/auto-responses", automationHandler.AutoRespond).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
