package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, activityHandler *ActivityHandler) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Activities API", "1.0.0")
	config.Info.Description = "Extracurricular activities and their rosters."
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Get(api, "/activities", activityHandler.HandleList)
	huma.Post(api, "/activities/{activityName}/signup", activityHandler.HandleSignup, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusOK
	})
	huma.Delete(api, "/activities/{activityName}/signup", activityHandler.HandleUnregister)
	huma.Get(api, "/activities/{activityName}/history", activityHandler.HandleHistory)

	return api
}
