package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/bracket-wager/internal/bracket"
	"github.com/AdamBeresnev/bracket-wager/internal/httputil"
	"github.com/AdamBeresnev/bracket-wager/internal/metrics"
	"github.com/AdamBeresnev/bracket-wager/internal/middleware"
	"github.com/AdamBeresnev/bracket-wager/internal/service"
	"github.com/AdamBeresnev/bracket-wager/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
)

func newRouter(database *sqlx.DB, sessionManager *scs.SessionManager) http.Handler {
	tournamentStore := store.NewTournamentStore(database)
	userStore := store.NewUserStore(database)
	locks := service.NewTournamentLocks()

	tournamentService := service.NewTournamentService(database, tournamentStore, userStore, locks)
	wagerService := service.NewWagerService(database, tournamentStore, userStore, locks)
	userService := service.NewUserService(database, userStore)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	r.Handle("/metrics", metrics.Handler())

	r.Post("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		user, err := userService.Register(r.Context(), body.Username, body.Password)
		if err != nil {
			httputil.ServiceError(w, err)
			return
		}

		sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
		httputil.JSON(w, http.StatusCreated, user)
	})

	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		user, err := userService.Authenticate(r.Context(), body.Username, body.Password)
		if err != nil {
			httputil.ServiceError(w, err)
			return
		}

		if err := sessionManager.RenewToken(r.Context()); err != nil {
			httputil.InternalServerError(w, "failed to renew session", err)
			return
		}
		sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
		httputil.JSON(w, http.StatusOK, user)
	})

	r.Post("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "failed to destroy session", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// Public tournament browsing; a private tournament needs its access code
	// as the code query parameter.
	r.Get("/api/brackets", func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := tournamentService.GetPublicTournaments(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "failed to list tournaments", err)
			return
		}
		httputil.JSON(w, http.StatusOK, tournaments)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, userStore))

		r.Get("/api/user", func(w http.ResponseWriter, r *http.Request) {
			user := middleware.GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Post("/api/user/daily-bonus", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			user, err := userService.ClaimDailyBonus(r.Context(), userID.String())
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Get("/api/brackets/mine", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := tournamentService.GetTournamentsForUser(r.Context())
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournaments)
		})

		r.Post("/api/brackets", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name            string   `json:"name"`
				Participants    []string `json:"participants"`
				IsPublic        bool     `json:"isPublic"`
				AccessCode      string   `json:"accessCode"`
				CreditModel     string   `json:"creditModel"`
				StartingCredits int      `json:"startingCredits"`
				AdminCanBet     bool     `json:"adminCanBet"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			tournament, err := tournamentService.CreateTournament(r.Context(), service.CreateTournamentInput{
				Name:            body.Name,
				Participants:    body.Participants,
				IsPublic:        body.IsPublic,
				AccessCode:      body.AccessCode,
				CreditModel:     bracket.CreditModel(body.CreditModel),
				StartingCredits: body.StartingCredits,
				AdminCanBet:     body.AdminCanBet,
			})
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, tournament)
		})

		r.Get("/api/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
			data, err := tournamentService.GetTournamentData(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("code"))
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, data)
		})

		// A single PATCH drives the tournament state machine: a status field
		// moves the lifecycle, a phase field closes betting, and a
		// matchNumber/winner pair records a result.
		r.Patch("/api/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Status      *string `json:"status"`
				Phase       *string `json:"phase"`
				MatchNumber *int    `json:"matchNumber"`
				Winner      *string `json:"winner"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			id := chi.URLParam(r, "id")
			var (
				tournament *bracket.Tournament
				err        error
			)
			switch {
			case body.Status != nil:
				tournament, err = tournamentService.UpdateStatus(r.Context(), id, bracket.TournamentStatus(*body.Status))
			case body.Phase != nil:
				tournament, err = tournamentService.UpdatePhase(r.Context(), id, bracket.TournamentPhase(*body.Phase))
			case body.MatchNumber != nil && body.Winner != nil:
				tournament, err = tournamentService.ApplyMatchResult(r.Context(), id, *body.MatchNumber, *body.Winner)
			default:
				httputil.BadRequest(w, "Nothing to update", nil)
				return
			}
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Post("/api/brackets/{id}/join", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				AccessCode string `json:"accessCode"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			tournament, err := tournamentService.JoinTournament(r.Context(), chi.URLParam(r, "id"), body.AccessCode)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Get("/api/brackets/{id}/bets", func(w http.ResponseWriter, r *http.Request) {
			var matchNumber *int
			if raw := r.URL.Query().Get("match"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					httputil.BadRequest(w, "Invalid match number", err)
					return
				}
				matchNumber = &n
			}

			bets, err := wagerService.GetBets(r.Context(), chi.URLParam(r, "id"), matchNumber)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, bets)
		})

		r.Post("/api/brackets/{id}/bets", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				MatchNumber    *int   `json:"matchNumber"`
				Amount         int    `json:"amount"`
				SelectedWinner string `json:"selectedWinner"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			bet, err := wagerService.PlaceBet(r.Context(), chi.URLParam(r, "id"), body.MatchNumber, body.Amount, body.SelectedWinner)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, bet)
		})
	})

	return r
}
