package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/database"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/router"
	"github.com/iliyamo/todo-list-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)
	tokens := repository.NewTokenRepo(db)

	tokenSvc := &service.TokenService{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		ResetTTL:   time.Duration(cfg.ResetTTLMin) * time.Minute,
		VerifyTTL:  time.Duration(cfg.VerifyTTLMin) * time.Minute,
		Tokens:     tokens,
		Users:      users,
	}
	authSvc := &service.AuthService{Users: users, Tokens: tokens, TokenSvc: tokenSvc, BcryptCost: cfg.BcryptCost}
	userSvc := &service.UserService{Users: users, BcryptCost: cfg.BcryptCost}
	todoSvc := &service.TodoService{Todos: todos, Users: users, PublishActivity: service.PublishActivity}

	if url := brokerURL(); url != "" {
		go func() {
			if err := queue.StartActivityConsumer(url); err != nil {
				log.Printf("activity consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("no broker configured, activity consumer disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = router.NewHTTPErrorHandler(cfg.Env)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(userSvc, authSvc, tokenSvc), cfg.JWTSecret, rl)
	router.RegisterTodos(e, handler.NewTodoHandler(todoSvc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func brokerURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}
