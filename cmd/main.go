package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/xjudge/xjudge/internal/api"
	"github.com/xjudge/xjudge/internal/email"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/auth_service"
	"github.com/xjudge/xjudge/internal/service/compiler_service"
	"github.com/xjudge/xjudge/internal/service/contest_service"
	"github.com/xjudge/xjudge/internal/service/group_service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/service/problem_service"
	"github.com/xjudge/xjudge/internal/service/submission_service"
	"github.com/xjudge/xjudge/internal/service/user_service"
	"github.com/xjudge/xjudge/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	apiConfig *api.Api
)

func initStore() *store.Store {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		panic("DB_URL not found")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		panic(err)
	}

	return store.NewPostgresStore(pool)
}

func initRedis() *redis.Client {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Warn("REDIS_URL not found, rank caching is disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic("cannot parse REDIS_URL: " + err.Error())
	}
	return redis.NewClient(opts)
}

func botCredentials(judge string) judge_service.BotCredentials {
	return judge_service.BotCredentials{
		Handle:   os.Getenv(judge + "_BOT_HANDLE"),
		Password: os.Getenv(judge + "_BOT_PASSWORD"),
	}
}

func initRegistry() *judge_service.Registry {
	log.Info("initializing judge registry")
	registry := judge_service.NewRegistry()

	fetcher := judge_service.NewHTTPFetcher()
	registry.RegisterScraper(store.JudgeAtCoder, judge_service.NewAtCoderScraper("", fetcher))
	registry.RegisterScraper(store.JudgeSpoj, judge_service.NewSpojScraper("", fetcher))
	registry.RegisterScraper(store.JudgeCodeforces, judge_service.NewCodeforcesScraper("", fetcher))

	// each submitter keeps its own session
	registry.RegisterSubmitter(store.JudgeAtCoder, judge_service.NewAtCoderSubmitter(
		"", judge_service.NewSessionFetcher(), botCredentials("ATCODER"),
	))
	registry.RegisterSubmitter(store.JudgeSpoj, judge_service.NewSpojSubmitter(
		"", judge_service.NewSessionFetcher(), botCredentials("SPOJ"),
	))
	registry.RegisterSubmitter(store.JudgeCodeforces, judge_service.NewCodeforcesSubmitter(
		"", judge_service.NewSessionFetcher(), botCredentials("CODEFORCES"),
	))

	return registry
}

func initApi(st *store.Store, registry *judge_service.Registry, redisClient *redis.Client) *api.Api {
	log.Info("initializing api config")

	authService := &auth_service.AuthService{
		Store:     st,
		JWTSecret: os.Getenv(service.KeyJWTSecret),
	}
	authService.Start()

	emailService := &email.EmailService{}
	emailService.Start()

	problemService := &problem_service.ProblemService{
		Store:    st,
		Registry: registry,
	}
	compilerService := compiler_service.New(st)
	contestService := &contest_service.ContestService{
		Store: st,
		Redis: redisClient,
	}
	groupService := &group_service.GroupService{
		Store:        st,
		EmailService: emailService,
	}
	userService := &user_service.UserService{Store: st}
	submissionService := &submission_service.SubmissionService{
		Store:           st,
		Registry:        registry,
		ProblemService:  problemService,
		ContestService:  contestService,
		CompilerService: compilerService,
	}

	return &api.Api{
		AuthService:       authService,
		ProblemService:    problemService,
		SubmissionService: submissionService,
		ContestService:    contestService,
		CompilerService:   compilerService,
		GroupService:      groupService,
		UserService:       userService,
		Registry:          registry,
	}
}

func setup() {
	godotenv.Load()
	service.InitializeServices()
	st := initStore()
	registry := initRegistry()
	redisClient := initRedis()
	apiConfig = initApi(st, registry, redisClient)
}

func setCors(router *chi.Mux) {
	router.Use(
		cors.Handler(
			cors.Options{
				AllowedOrigins:   []string{"https://*", "http://*"},
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: true,
				ExposedHeaders:   []string{"Link"},
				MaxAge:           300,
			},
		),
	)
	log.Info("cors options has been set")
}

func main() {
	setup()

	router := chi.NewRouter()
	setCors(router)

	v1router := NewV1Router()
	router.Mount("/v1", v1router)
	log.Info("v1 router has been mounted")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Warnf("port not found in environment. using default port %s", port)
	}
	apiAddress := os.Getenv("API_URL") + ":" + port

	log.Info("starting server")
	srv := http.Server{
		Handler: router,
		Addr:    apiAddress,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server cannot be started. Error: %v", err)
	}
}
