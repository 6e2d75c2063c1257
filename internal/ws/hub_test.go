package ws

import (
	"testing"

	"github.com/google/uuid"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()
	chatID := uuid.New()

	hub.AddClient(chatID, nil, ConnInfo{ConnID: "c1"})
	if len(hub.rooms) != 1 {
		t.Fatalf("expected chat room to be created")
	}
	if _, ok := hub.getConnInfo(chatID, nil); !ok {
		t.Fatalf("expected conn info to be tracked")
	}

	hub.RemoveClient(chatID, nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected chat room to be removed")
	}
	if len(hub.connInfo) != 0 {
		t.Fatalf("expected conn info to be cleaned up")
	}
}

func TestHubRoomsAreIndependent(t *testing.T) {
	hub := NewHub()
	a, b := uuid.New(), uuid.New()

	hub.AddClient(a, nil, ConnInfo{ConnID: "a"})
	hub.AddClient(b, nil, ConnInfo{ConnID: "b"})

	hub.RemoveClient(a, nil)
	if len(hub.rooms) != 1 {
		t.Fatalf("expected the other room to survive")
	}
	if _, ok := hub.getConnInfo(b, nil); !ok {
		t.Fatalf("expected room b conn info to survive")
	}
}
