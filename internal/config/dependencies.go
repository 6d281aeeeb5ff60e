package config

import (
	"database/sql"
	"reflect"
	"strings"

	"flowsync/configs"
	"flowsync/internal/cache"
	"flowsync/internal/repository"
	"flowsync/internal/service"
	"flowsync/internal/websocket"
	"flowsync/pkg/crypto"
	"flowsync/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

// Dependencies menampung semua dependency yang dipakai handler,
// menggantikan variabel global.
type Dependencies struct {
	DB       *sql.DB
	Redis    *redis.Client // nil kalau REDIS_ENABLED=false
	Validate *validator.Validate
	Tokens   *token.Manager
	Hasher   *crypto.PasswordHasher
	Hub      *websocket.Hub

	Auth     *service.AuthService
	Users    *service.UserService
	Tasks    *service.TaskService
	Projects *service.ProjectService
	Comments *service.CommentService
	Activity *service.ActivityRecorder
}

// NewDependencies merangkai repository ke service. rdb boleh nil.
func NewDependencies(cfg configs.Config, db *sql.DB, rdb *redis.Client) *Dependencies {
	d := &Dependencies{
		DB:       db,
		Redis:    rdb,
		Validate: NewValidator(),
		Tokens:   token.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn),
		Hasher:   crypto.NewPasswordHasher(cfg.BcryptCost),
		Hub:      websocket.NewHub(),
	}

	var users service.UserStore = repository.NewUserRepository(db)
	if rdb != nil {
		users = cache.NewUsers(users, rdb, cfg.CacheTTL)
	}
	tasks := repository.NewTaskRepository(db)

	d.Activity = service.NewActivityRecorder(repository.NewActivityRepository(db), d.Hub)
	d.Auth = service.NewAuthService(users, d.Hasher, d.Tokens)
	d.Users = service.NewUserService(users)
	d.Tasks = service.NewTaskService(tasks, d.Activity)
	d.Projects = service.NewProjectService(repository.NewProjectRepository(db), tasks, d.Activity)
	d.Comments = service.NewCommentService(repository.NewCommentRepository(db), tasks, d.Activity)
	return d
}

// NewValidator melaporkan field dengan nama json-nya.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
