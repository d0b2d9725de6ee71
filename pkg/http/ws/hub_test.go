package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToUserWithoutConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	err := hub.SendToUser(uuid.New(), NewMessage("inbox", nil))
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestSendToUserQueuesOnRegisteredConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := uuid.New()
	conn := NewConnection(nil, zerolog.Nop())
	hub.Register(userID, conn)

	require.NoError(t, hub.SendToUser(userID, NewMessage("inbox", nil)))
	assert.Len(t, conn.sendCh, 1)
}

func TestSendToUserReportsFullQueue(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := uuid.New()
	conn := NewConnection(nil, zerolog.Nop())
	hub.Register(userID, conn)

	for i := 0; i < cap(conn.sendCh); i++ {
		require.NoError(t, conn.Send(NewMessage("inbox", nil)))
	}
	assert.ErrorIs(t, hub.SendToUser(userID, NewMessage("inbox", nil)), ErrSendQueueFull)
}

func TestUnregisterIgnoresReplacedConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := uuid.New()
	current := NewConnection(nil, zerolog.Nop())
	stale := NewConnection(nil, zerolog.Nop())
	hub.Register(userID, current)

	hub.Unregister(userID, stale)

	assert.NoError(t, hub.SendToUser(userID, NewMessage("inbox", nil)))
}
