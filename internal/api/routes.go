package api

import (
	"flowsync/internal/api/handlers"
	"flowsync/internal/config"
	"flowsync/internal/middleware"
	"flowsync/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, d *config.Dependencies) {
	h := handlers.New(d)
	auth := middleware.UseToken(d.Tokens)

	app.Get("/", h.Welcome)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/ws/activity", websocket.RequireUpgrade, middleware.UseQueryToken(d.Tokens), d.Hub.Handler())

	api := app.Group("/api")
	api.Get("/health", h.Health)

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Get("/me", auth, h.Me)

	// Task; stats/overview must be registered before /:id
	taskRoutes := api.Group("/tasks", auth)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Get("/stats/overview", h.TaskStats)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)

	// Project
	projectRoutes := api.Group("/projects", auth)
	projectRoutes.Get("/", h.ListProjects)
	projectRoutes.Get("/:id", h.GetProject)
	projectRoutes.Post("/", h.CreateProject)
	projectRoutes.Put("/:id", h.UpdateProject)
	projectRoutes.Delete("/:id", h.DeleteProject)

	// Comment
	commentRoutes := api.Group("/comments", auth)
	commentRoutes.Get("/task/:taskId", h.ListComments)
	commentRoutes.Post("/", h.CreateComment)
	commentRoutes.Delete("/:id", h.DeleteComment)

	// Activity
	activityRoutes := api.Group("/activity", auth)
	activityRoutes.Get("/", h.ListActivity)
	activityRoutes.Get("/recent", h.RecentActivity)

	// User
	userRoutes := api.Group("/users", auth)
	userRoutes.Get("/", h.ListUsers)
	userRoutes.Get("/:id", h.GetUser)
	userRoutes.Put("/:id", h.UpdateUser)
	userRoutes.Delete("/:id", h.DeleteUser)

	app.Use(h.NotFound)
}
