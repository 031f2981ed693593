package broker

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
)

// Broker consumes game service messages and delivers them to web clients:
// messages carrying a socket id go to that one connection, the rest are
// room broadcasts fanned out to every socket subscribed to the room.
type Broker struct {
	Conn           *nats.Conn
	GetConnection  func(string) (*websocket.Conn, bool)
	GetRoomSockets func(string) ([]string, bool)
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool), fncGetRoomSockets func(string) ([]string, bool)) *Broker {
	return &Broker{
		Conn:           conn,
		GetConnection:  fncGetConnection,
		GetRoomSockets: fncGetRoomSockets,
	}
}

// consume message from game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to game service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receive message from game service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	err := json.Unmarshal(msgNats.Data, &message)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	if message.SocketId != "" {
		b.sendMessage(message)
		return
	}
	b.broadcast(message)
}

// send socket message to the web client
func (b *Broker) sendMessage(m *comm.WSMessage) {
	socketId := m.SocketId
	if conn, ok := b.GetConnection(socketId); ok {
		if err := conn.WriteJSON(m); err != nil {
			log.Println(err)
		}
	}
}

// broadcast fans the event out to every socket subscribed to the room. All
// broadcast payloads carry the room code.
func (b *Broker) broadcast(m *comm.WSMessage) {
	var payload struct {
		Code string `json:"code"`
		Room *struct {
			Code string `json:"code"`
		} `json:"room"`
	}
	if err := json.Unmarshal(m.Data, &payload); err != nil {
		log.Errorf("Error decoding broadcast payload: %s", err)
		return
	}

	code := payload.Code
	if code == "" && payload.Room != nil {
		code = payload.Room.Code
	}
	if code == "" {
		log.Warnf("broadcast %s without a room code, dropped", m.Type)
		return
	}

	sockets, ok := b.GetRoomSockets(code)
	if !ok {
		return
	}
	for _, socketId := range sockets {
		if conn, ok := b.GetConnection(socketId); ok {
			if err := conn.WriteJSON(m); err != nil {
				log.Println(err)
			}
		}
	}
}
