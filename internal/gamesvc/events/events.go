// Package events pushes domain events to the realtime layer over NATS.
// Delivery is best-effort and never part of a unit of work: the engine does
// not depend on any subscriber receiving an event.
package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
)

// Topic carrying engine events for the socket service to fan out.
const Topic = "game.service"

type Emitter struct {
	nc *nats.Conn
}

func NewEmitter(nc *nats.Conn) *Emitter {
	return &Emitter{nc: nc}
}

// Emit publishes one event. A nil emitter or connection is a no-op so the
// engine can run without the realtime layer (tests, batch tools).
func (e *Emitter) Emit(msgType string, payload any, socketID string) {
	if e == nil || e.nc == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("unable to marshal %s payload: %v", msgType, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketID,
	}
	out, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("unable to marshal %s envelope: %v", msgType, err)
		return
	}

	if err := e.nc.Publish(Topic, out); err != nil {
		log.Errorf("publish %s: %v", msgType, err)
	}
}
