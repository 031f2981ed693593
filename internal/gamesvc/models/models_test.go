package models

import (
	"testing"
	"time"
)

func TestParseCurrency(t *testing.T) {
	for _, s := range []string{"coins", "fires"} {
		c, err := ParseCurrency(s)
		if err != nil {
			t.Fatalf("ParseCurrency(%q): %v", s, err)
		}
		if !c.Valid() {
			t.Fatalf("ParseCurrency(%q) returned invalid currency", s)
		}
		if c.Label() == "" {
			t.Fatalf("currency %q has no label", s)
		}
	}

	for _, s := range []string{"", "gold", "COINS", "coin"} {
		if _, err := ParseCurrency(s); err == nil {
			t.Errorf("ParseCurrency(%q) accepted unknown currency", s)
		}
	}
}

func TestRoomJoinable(t *testing.T) {
	joinable := map[string]bool{
		RoomStatusLobby:    true,
		RoomStatusReady:    true,
		RoomStatusStarting: true,
		RoomStatusPlaying:  false,
		RoomStatusFinished: false,
		RoomStatusCanceled: false,
	}
	for status, want := range joinable {
		r := &Room{Status: status}
		if got := r.Joinable(); got != want {
			t.Errorf("Joinable() with status %s = %v, want %v", status, got, want)
		}
	}
}

func TestRoomPlayerReady(t *testing.T) {
	p := &RoomPlayer{}
	if p.Ready() {
		t.Error("player with nil ReadyAt reported ready")
	}
	now := time.Now()
	p.ReadyAt = &now
	if !p.Ready() {
		t.Error("player with ReadyAt set reported not ready")
	}
}
