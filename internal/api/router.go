package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/main0crine/wheel-backend/internal/api/httpx"
	"github.com/main0crine/wheel-backend/internal/config"
	"github.com/main0crine/wheel-backend/internal/middleware"
	"github.com/main0crine/wheel-backend/internal/models"
	"github.com/main0crine/wheel-backend/internal/services"
)

// Wire shapes: timestamps go out as Unix seconds.

type roundResp struct {
	RoundID      int64             `json:"round_id"`
	Bank         int64             `json:"bank"`
	Players      []services.Player `json:"players"`
	StartedAt    int64             `json:"started_at"`
	SecondsLeft  int64             `json:"seconds_left"`
	RoundSeconds int               `json:"round_seconds"`
}

type historyEntry struct {
	ID        int64  `json:"id"`
	Result    string `json:"result"`
	Bank      int64  `json:"bank"`
	StartedAt int64  `json:"started_at"`
	EndedAt   int64  `json:"ended_at"`
}

func toHistoryEntry(r models.Round) historyEntry {
	e := historyEntry{ID: r.ID, Bank: r.Bank, StartedAt: r.StartedAt.Unix()}
	if r.Result != nil {
		e.Result = *r.Result
	}
	if r.EndedAt != nil {
		e.EndedAt = r.EndedAt.Unix()
	}
	return e
}

func NewRouter(cfg config.Config, rs *services.RoundService, us *services.UserService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// ---------- round ----------
		r.Get("/round", func(w http.ResponseWriter, r *http.Request) {
			view, err := rs.View(r.Context())
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, roundResp{
				RoundID:      view.RoundID,
				Bank:         view.Bank,
				Players:      view.Players,
				StartedAt:    view.StartedAt.Unix(),
				SecondsLeft:  view.SecondsLeft,
				RoundSeconds: view.RoundSeconds,
			})
		})

		// ---------- history ----------
		r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 { limit = n }
			}
			rounds, err := rs.History(r.Context(), limit)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
				return
			}
			out := make([]historyEntry, 0, len(rounds))
			for _, rnd := range rounds {
				out = append(out, toHistoryEntry(rnd))
			}
			httpx.WriteJSON(w, http.StatusOK, out)
		})

		// ---------- bet ----------
		r.Post("/bet", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID int64  `json:"user_id"`
				Name   string `json:"name"`
				Amount int64  `json:"amount"`
				Mult   string `json:"mult"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.Name == "" {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			roundID, err := rs.PlaceBet(r.Context(), req.UserID, req.Name, req.Amount, req.Mult)
			if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrUnknownMult) {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
				return
			}
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]int64{"round_id": roundID})
		})

		// ---------- balance ----------
		r.Get("/balance", func(w http.ResponseWriter, r *http.Request) {
			uid, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
			if err != nil || uid == 0 {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "user_id required", nil)
				return
			}
			balance, err := us.Balance(r.Context(), uid)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]int64{"user_id": uid, "balance": balance})
		})
	})

	return r
}
