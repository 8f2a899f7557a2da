package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type GameHandler struct {
	gameService   ports.GameService
	reviewService ports.ReviewService
}

func NewGameHandler(gameService ports.GameService, reviewService ports.ReviewService) *GameHandler {
	return &GameHandler{gameService: gameService, reviewService: reviewService}
}

type createGameRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genres      []string   `json:"genres"`
	Price       int64      `json:"price"`
	ReleasedAt  *time.Time `json:"released_at"`
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	game, err := h.gameService.Create(r.Context(), identity.UserID, ports.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		Genres:      req.Genres,
		Price:       req.Price,
		ReleasedAt:  req.ReleasedAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

type updateGameRequest struct {
	Description *string    `json:"description"`
	Genres      []string   `json:"genres"`
	Price       *int64     `json:"price"`
	ReleasedAt  *time.Time `json:"released_at"`
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	var req updateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	game, err := h.gameService.Update(r.Context(), gameID, identity.UserID, ports.UpdateGameInput{
		Description: req.Description,
		Genres:      req.Genres,
		Price:       req.Price,
		ReleasedAt:  req.ReleasedAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	game, err := h.gameService.GetByID(r.Context(), gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	games, err := h.gameService.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if games == nil {
		games = []*domain.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

type createReviewRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func (h *GameHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewService.Create(r.Context(), identity.UserID, gameID, ports.CreateReviewInput{
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *GameHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	reviews, err := h.reviewService.ListByGame(r.Context(), gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
