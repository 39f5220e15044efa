package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-recipes-api/docs"
	"github.com/FACorreiaa/go-recipes-api/internal/api/auth"
	"github.com/FACorreiaa/go-recipes-api/internal/api/recipe"
	"github.com/FACorreiaa/go-recipes-api/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandler
	UserHandler            user.Handler
	RecipeHandler          recipe.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go
// before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/register", cfg.UserHandler.RegisterHandler)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/login", cfg.AuthHandler.Login)

			r.Route("/recipe", func(r chi.Router) {
				r.Post("/new", cfg.RecipeHandler.CreateRecipe)
				r.Get("/search", cfg.RecipeHandler.SearchRecipes)
				r.Get("/{id}", cfg.RecipeHandler.GetRecipe)
				r.Put("/{id}", cfg.RecipeHandler.UpdateRecipe)
				r.Delete("/{id}", cfg.RecipeHandler.DeleteRecipe)
			})
		})

		// Unknown API paths are not revealed to anonymous callers.
		r.NotFound(cfg.AuthenticateMiddleware(http.NotFoundHandler()).ServeHTTP)
	})

	return r
}
