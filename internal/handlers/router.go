package handlers

import (
	"net/http"
	"taskManager/internal/middleware"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	RequestTimeout time.Duration
	RateLimitRPM   int
	CORSOrigins    []string
}

func NewRouter(tasks *TaskHandler, auth *AuthHandler, users *UserHandler, authn middleware.Authenticator, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimitRPM > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitRPM))
	}
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	requireAuth := middleware.Auth(authn)

	r.Get("/health", tasks.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.With(requireAuth).Post("/logout", auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", tasks.ListTasks)   // GET /api/tasks?status=&search=
				r.Post("/", tasks.CreateTask) // POST /api/tasks

				r.Patch("/{id}", tasks.UpdateTask)  // PATCH /api/tasks/{id}
				r.Delete("/{id}", tasks.DeleteTask) // DELETE /api/tasks/{id}
			})

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", users.Me)
				r.Put("/password", auth.ChangePassword)
			})
		})
	})

	return r
}
