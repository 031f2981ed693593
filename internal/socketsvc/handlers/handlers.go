package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/socketsvc/ws"
)

// Handler upgrades browser connections and feeds their frames into the
// relay. Every connection gets a generated socket id; the game service
// addresses its replies to that id.
type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
}

func NewHandler(s *ws.Ws) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws: s,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("websocket upgrade: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)
	log.Infof("socket %s connected", socketId)

	go h.readLoop(conn, socketId)
}

func (h *Handler) readLoop(conn *websocket.Conn, socketId string) {
	defer func() {
		conn.Close()
		h.ws.HandleDisconnect(socketId)
		log.Infof("socket %s disconnected", socketId)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("socket %s read: %v", socketId, err)
			}
			return
		}

		msg := &comm.WSMessage{}
		if err := json.Unmarshal(raw, msg); err != nil {
			log.Warnf("socket %s sent a malformed frame: %v", socketId, err)
			h.reject(conn, "malformed message")
			continue
		}
		h.ws.SocketMessage(socketId, msg)
	}
}

// reject answers a frame the relay could not parse; the connection stays up.
func (h *Handler) reject(conn *websocket.Conn, reason string) {
	data, err := json.Marshal(comm.ErrorData{Message: reason})
	if err != nil {
		return
	}
	msg := comm.WSMessage{Type: comm.EventError, Data: data}
	if err := conn.WriteJSON(msg); err != nil {
		log.Errorf("reject frame: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body := map[string]string{
		"status": "ok",
		"port":   os.Getenv("SOCKET_SERVICE_PORT"),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("encode health response: %v", err)
	}
}
