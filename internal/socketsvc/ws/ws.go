package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/socketsvc/broker"
)

const gameServiceTopic = "socket.service"

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
	roomMap sync.Map // to keep track of room code with socketId
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeCreateRoom, comm.TypeJoinRoom, comm.TypeMarkReady,
		comm.TypeStartGame, comm.TypeDrawNumber, comm.TypeMarkNumber,
		comm.TypeClaimBingo, comm.TypeGetRoom, comm.TypeGetCards,
		comm.TypeGetDraws, comm.TypeGetBalance:
		s.forward(socketId, message)
	case "subscribe-room":
		s.handleSubscribeRoom(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// forward relays the request to the game service, stamped with the socket
// id so the reply finds its way back.
func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	if err := s.Broker.Publish(gameServiceTopic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", gameServiceTopic, err)
	}
}

// handleSubscribeRoom registers the socket for the room's broadcast events
// (draws, claims, game over). Clients send it after creating or joining.
func (s *Ws) handleSubscribeRoom(socketId string, msg *comm.WSMessage) {
	var payload struct {
		RoomCode string `json:"room_code"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed subscribe-room payload %s", err)
		return
	}
	if payload.RoomCode == "" {
		log.Error("Invalid subscribe-room payload: missing room code")
		return
	}

	s.StoreRoom(socketId, payload.RoomCode)
	log.Infof("socket %s subscribed to room %s", socketId, payload.RoomCode)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) StoreRoom(socketId string, roomCode string) {
	s.roomMap.Store(socketId, roomCode)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomCode string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomCode {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}
