package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/codmarena/codm-tournaments/handlers"
	"github.com/codmarena/codm-tournaments/middleware"
	"github.com/codmarena/codm-tournaments/models"
)

// SetupRoutes wires the public spectator/registration surface and the
// JWT-gated moderation surface onto the router.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	bracketHandler *handlers.BracketHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/login", authHandler.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/slug/{slug}", tournamentHandler.GetBySlugHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetHandler)
			r.Get("/matches", matchHandler.ListHandler)
			r.Get("/leaderboard", leaderboardHandler.GetLeaderboardHandler)
			r.Get("/leaderboard/players", leaderboardHandler.GetPlayerLeaderboardHandler)
			r.Get("/groups/standings", leaderboardHandler.GetGroupStandingsHandler)
			r.Get("/play-in/structure", bracketHandler.PlayInStructureHandler)
			r.Get("/play-in/stats", leaderboardHandler.GetPlayInStatsHandler)

			r.Get("/teams", teamHandler.ListHandler)
			r.Post("/teams", teamHandler.RegisterHandler)
		})
	})

	router.Get("/teams/{teamID}", teamHandler.GetHandler)
	router.Post("/teams/{teamID}/verification-video", teamHandler.UploadVideoHandler)

	router.Get("/matches/{matchID}", matchHandler.GetHandler)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	// Moderation surface: admins run tournaments, moderators verify teams and
	// enter results.
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(string(models.RoleAdmin)))

			r.Post("/tournaments", tournamentHandler.CreateHandler)
			r.Put("/tournaments/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Patch("/tournaments/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
			r.Delete("/tournaments/{tournamentID}", tournamentHandler.DeleteHandler)

			r.Post("/tournaments/{tournamentID}/group-stage", bracketHandler.GenerateGroupStageHandler)
			r.Post("/tournaments/{tournamentID}/play-in", bracketHandler.GeneratePlayInHandler)
			r.Post("/tournaments/{tournamentID}/elimination", bracketHandler.GenerateEliminationHandler)
			r.Post("/tournaments/{tournamentID}/elimination/advance", bracketHandler.AdvanceRoundHandler)
			r.Delete("/tournaments/{tournamentID}/phases/{phase}", bracketHandler.ResetPhaseHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(string(models.RoleAdmin), string(models.RoleModerator)))

			r.Post("/teams/{teamID}/approve", teamHandler.ApproveHandler)
			r.Post("/teams/{teamID}/reject", teamHandler.RejectHandler)
			r.Post("/matches/{matchID}/result", matchHandler.SubmitResultHandler)
		})
	})
}
