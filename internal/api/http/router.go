package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rental-tracker-backend/internal/config"
)

// NewRouter registers every API route and wraps the router in the middleware
// chain. Static segments are registered before {id} so they win the match.
func NewRouter(svc Services, cfg config.HTTPConfig, loc *time.Location) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	dashboard := NewDashboardHandler(svc.Dashboard)
	api.HandleFunc("/dashboard/stats", dashboard.Stats).Methods(http.MethodGet)

	suppliers := NewSupplierHandler(svc.Suppliers)
	api.HandleFunc("/suppliers", suppliers.List).Methods(http.MethodGet)
	api.HandleFunc("/suppliers", suppliers.Create).Methods(http.MethodPost)
	api.HandleFunc("/suppliers/{id}", suppliers.Get).Methods(http.MethodGet)
	api.HandleFunc("/suppliers/{id}", suppliers.Update).Methods(http.MethodPut)
	api.HandleFunc("/suppliers/{id}", suppliers.Delete).Methods(http.MethodDelete)

	inventory := NewInventoryHandler(svc.Inventory)
	api.HandleFunc("/categories", inventory.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", inventory.CreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", inventory.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", inventory.UpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", inventory.DeleteCategory).Methods(http.MethodDelete)
	api.HandleFunc("/products", inventory.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", inventory.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/low-stock", inventory.ListLowStock).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", inventory.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", inventory.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", inventory.DeleteProduct).Methods(http.MethodDelete)

	rentals := NewRentalHandler(svc.Rentals)
	substitutions := NewSubstitutionHandler(svc.Substitutions, loc)
	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals", rentals.Create).Methods(http.MethodPost)
	api.HandleFunc("/rentals/active", rentals.ListActive).Methods(http.MethodGet)
	api.HandleFunc("/rentals/overdue", rentals.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.Update).Methods(http.MethodPut)
	api.HandleFunc("/rentals/{id}", rentals.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id}/substitutions", substitutions.ListByRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/substitutions", substitutions.Record).Methods(http.MethodPost)

	api.HandleFunc("/equipment-substitutions", substitutions.List).Methods(http.MethodGet)
	api.HandleFunc("/equipment-substitutions/summary", substitutions.Summary).Methods(http.MethodGet)
	api.HandleFunc("/equipment-substitutions/export", substitutions.Export).Methods(http.MethodGet)
	// Path used by the existing substitution history client.
	api.HandleFunc("/equipment-substitutions/rental/{id}", substitutions.ListByRental).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, Problem{Title: "Not found", Status: http.StatusNotFound, Detail: "no route for " + r.URL.Path})
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, Problem{Title: "Method not allowed", Status: http.StatusMethodNotAllowed})
	})
	// Method mismatches inside /api are only reported by the subrouter's own handler.
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = methodNotAllowed
	api.MethodNotAllowedHandler = methodNotAllowed

	return wrap(router, Middleware(cfg))
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
