package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/ambufleet/handlers"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(runner *handlers.JobRunner) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")

	registerAmbulanceRoutes(api)
	registerAmpularioRoutes(api)
	registerAlertIncidentRoutes(api)
	RegisterNotificationRoutes(api)

	// =====================================================
	// Admin Routes (require admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	registerAdminRoutes(admin, runner)

	return r
}

// registerAmbulanceRoutes registers the fleet, inventory and review-cycle
// routes.
func registerAmbulanceRoutes(api *mux.Router) {
	coordinator := []string{models.RoleCoordinator}

	api.HandleFunc("/ambulances", handlers.GetAllAmbulances).Methods("GET")
	api.Handle("/ambulances", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.CreateAmbulance))).Methods("POST")
	api.HandleFunc("/ambulances/{id}", handlers.GetAmbulance).Methods("GET")
	api.Handle("/ambulances/{id}", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.UpdateAmbulance))).Methods("PUT")
	api.Handle("/ambulances/{id}", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.DeleteAmbulance))).Methods("DELETE")

	// Review cycle
	api.HandleFunc("/ambulances/{id}/workflow", handlers.GetWorkflowState).Methods("GET")
	api.HandleFunc("/ambulances/{id}/workflow", handlers.UpdateWorkflowStage).Methods("PUT")
	api.HandleFunc("/ambulances/{id}/daily-checks", handlers.GetDailyChecks).Methods("GET")
	api.HandleFunc("/ambulances/{id}/daily-checks", handlers.SubmitDailyCheck).Methods("POST")
	api.HandleFunc("/ambulances/{id}/reviews", handlers.GetMechanicalReviews).Methods("GET")
	api.HandleFunc("/ambulances/{id}/reviews", handlers.SubmitMechanicalReview).Methods("POST")
	api.HandleFunc("/ambulances/{id}/cleanings", handlers.GetCleaningLogs).Methods("GET")
	api.HandleFunc("/ambulances/{id}/cleanings", handlers.SubmitCleaningLog).Methods("POST")

	// Inventory
	api.HandleFunc("/ambulances/{id}/inventory", handlers.GetAmbulanceInventory).Methods("GET")
	api.HandleFunc("/ambulances/{id}/inventory", handlers.CreateInventoryItem).Methods("POST")
	api.HandleFunc("/ambulances/{id}/inventory/export", handlers.ExportInventoryToExcel).Methods("GET")
	api.HandleFunc("/inventory/{itemId}", handlers.UpdateInventoryItem).Methods("PUT")
	api.HandleFunc("/inventory/{itemId}", handlers.DeleteInventoryItem).Methods("DELETE")
	api.HandleFunc("/inventory/{itemId}/adjust", handlers.AdjustItemQuantity).Methods("POST")
	api.HandleFunc("/inventory/{itemId}/history", handlers.GetItemQuantityHistory).Methods("GET")
}

// registerAmpularioRoutes registers the central store, spaces and kits.
func registerAmpularioRoutes(api *mux.Router) {
	coordinator := []string{models.RoleCoordinator}

	api.HandleFunc("/spaces", handlers.GetAllSpaces).Methods("GET")
	api.Handle("/spaces", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.CreateSpace))).Methods("POST")
	api.Handle("/spaces/{id}", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.DeleteSpace))).Methods("DELETE")

	api.HandleFunc("/ampulario", handlers.GetAmpularioMaterials).Methods("GET")
	api.HandleFunc("/ampulario", handlers.CreateAmpularioMaterial).Methods("POST")
	api.HandleFunc("/ampulario/export", handlers.ExportAmpularioToCSV).Methods("GET")
	api.HandleFunc("/ampulario/{id}", handlers.UpdateAmpularioMaterial).Methods("PUT")
	api.HandleFunc("/ampulario/{id}", handlers.DeleteAmpularioMaterial).Methods("DELETE")

	api.HandleFunc("/kits", handlers.GetAllKits).Methods("GET")
	api.Handle("/kits", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.CreateKit))).Methods("POST")
	api.Handle("/kits/{id}", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.UpdateKit))).Methods("PUT")
	api.Handle("/kits/{id}", middleware.RequireRole(coordinator,
		http.HandlerFunc(handlers.DeleteKit))).Methods("DELETE")
	api.HandleFunc("/kits/{id}/audit/{ambulanceId}", handlers.AuditKitAgainstAmbulance).Methods("GET")
}

// registerAlertIncidentRoutes registers the derived alert stream and the
// incident lifecycle.
func registerAlertIncidentRoutes(api *mux.Router) {
	api.HandleFunc("/alerts", handlers.GetAlerts).Methods("GET")

	api.HandleFunc("/incidents", handlers.GetAllIncidents).Methods("GET")
	api.HandleFunc("/incidents", handlers.CreateIncident).Methods("POST")
	api.HandleFunc("/incidents/{id}", handlers.GetIncident).Methods("GET")
	api.HandleFunc("/incidents/{id}", handlers.UpdateIncident).Methods("PUT")
	api.HandleFunc("/incidents/{id}/status", handlers.TransitionIncidentStatus).Methods("PATCH")
}

// RegisterNotificationRoutes registers user-facing notification routes and
// the config store.
func RegisterNotificationRoutes(api *mux.Router) {
	api.HandleFunc("/notifications", handlers.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", handlers.GetUnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsAsRead).Methods("PATCH")
	api.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationAsRead).Methods("PATCH")
	api.HandleFunc("/notifications/preferences", handlers.GetNotificationPreferences).Methods("GET")
	api.HandleFunc("/notifications/preferences", handlers.UpdateNotificationPreferences).Methods("PUT")

	store := handlers.NewConfigStore()
	api.HandleFunc("/config/{key}", store.GetConfigValue).Methods("GET")
	api.Handle("/config/{key}", middleware.RequireRole([]string{models.RoleCoordinator},
		http.HandlerFunc(store.SetConfigValue))).Methods("PUT")
}

// registerAdminRoutes registers user management, audit and the manual job
// triggers.
func registerAdminRoutes(admin *mux.Router, runner *handlers.JobRunner) {
	admin.HandleFunc("/register", handlers.Register).Methods("POST")
	admin.HandleFunc("/users", handlers.GetAllUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/users/{id}/ambulance", handlers.AssignAmbulance).Methods("PUT")

	admin.HandleFunc("/audit", handlers.GetAuditLog).Methods("GET")

	admin.HandleFunc("/jobs/daily", runner.TriggerDailyPass).Methods("POST")
	admin.HandleFunc("/jobs/hourly", runner.TriggerHourlyPass).Methods("POST")
}
