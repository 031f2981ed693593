package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/service"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

// Handler serves the read-side HTTP API. All game mutations travel over the
// socket path; HTTP exposes room state, draw history and the ledger trail.
type Handler struct {
	tokenAuth    *jwtauth.JWTAuth
	roomService  *service.RoomService
	drawService  *service.DrawService
	claimService *service.ClaimService
	ledger       *store.LedgerStore
}

func NewHandler(roomService *service.RoomService, drawService *service.DrawService,
	claimService *service.ClaimService, ledger *store.LedgerStore) *Handler {
	return &Handler{
		roomService:  roomService,
		drawService:  drawService,
		claimService: claimService,
		ledger:       ledger,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "game service is running",
		Code:    http.StatusOK,
	})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.GetRoom(r.Context(), code)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "room not found"})
		return
	}
	players, err := h.roomService.GetRoomPlayers(r.Context(), room.ID)
	if err != nil {
		log.Errorf("get room players for %s: %s", code, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{
		Code: http.StatusOK,
		Data: map[string]interface{}{"room": room, "players": players},
	})
}

func (h *Handler) GetDrawsHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.GetRoom(r.Context(), code)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "room not found"})
		return
	}
	draws, err := h.drawService.DrawHistory(r.Context(), room.ID)
	if err != nil {
		log.Errorf("get draw history for %s: %s", code, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: draws})
}

func (h *Handler) GetWinnersHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.GetRoom(r.Context(), code)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "room not found"})
		return
	}
	winners, err := h.claimService.Winners(r.Context(), room.ID)
	if err != nil {
		log.Errorf("get winners for %s: %s", code, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: winners})
}

func (h *Handler) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	entries, err := h.ledger.ListByRoom(r.Context(), code)
	if err != nil {
		log.Errorf("get ledger for %s: %s", code, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: entries})
}
