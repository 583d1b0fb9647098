package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/xjudge/xjudge/middleware"
)

func NewV1Router() *chi.Mux {
	v1 := chi.NewRouter()

	v1.Get("/healthz", apiConfig.HandlerReadiness)

	// auth layer
	v1.Post("/auth/signup", apiConfig.HandlerSignUp)
	v1.Post("/auth/login", apiConfig.HandlerLogin)
	v1.Post("/auth/logout", apiConfig.HandlerLogout)
	v1.Get("/auth/me", middleware.JWTMiddleware(apiConfig.HandlerGetMe))

	// judges and compilers
	v1.Get("/judges", apiConfig.HandlerListJudges)
	v1.Get("/compilers", apiConfig.HandlerListCompilers)
	v1.Post("/compilers", middleware.JWTMiddleware(apiConfig.HandlerCreateCompiler))

	// problems layer
	v1.Get("/problems", apiConfig.HandlerGetProblem)
	v1.Get("/problems/search", apiConfig.HandlerListProblems)
	v1.Get("/description/{route}", apiConfig.HandlerGetDescription)

	// submissions layer
	v1.Post("/submissions", middleware.JWTMiddleware(apiConfig.HandlerSubmit))
	v1.Get("/submissions", middleware.JWTMiddleware(apiConfig.HandlerListSubmissions))
	v1.Get("/submissions/{id}", middleware.JWTMiddleware(apiConfig.HandlerGetSubmission))

	// contests layer
	v1.Post("/contests", middleware.JWTMiddleware(apiConfig.HandlerCreateContest))
	v1.Put("/contests", middleware.JWTMiddleware(apiConfig.HandlerUpdateContest))
	v1.Get("/contests/{id}", middleware.JWTMiddleware(apiConfig.HandlerGetContest))
	v1.Delete("/contests/{id}", middleware.JWTMiddleware(apiConfig.HandlerDeleteContest))
	v1.Post("/contests/{id}/enter", middleware.JWTMiddleware(apiConfig.HandlerEnterContest))
	v1.Get("/contests/{id}/rank", middleware.JWTMiddleware(apiConfig.HandlerGetContestRank))

	// groups layer
	v1.Post("/groups", middleware.JWTMiddleware(apiConfig.HandlerCreateGroup))
	v1.Get("/groups/{id}", middleware.JWTMiddleware(apiConfig.HandlerGetGroup))
	v1.Post("/groups/{id}/join", middleware.JWTMiddleware(apiConfig.HandlerJoinGroup))
	v1.Post("/groups/invitations", middleware.JWTMiddleware(apiConfig.HandlerInvite))

	// users layer
	v1.Get("/users/{handle}/statistics", apiConfig.HandlerGetUserStatistics)

	return v1
}
