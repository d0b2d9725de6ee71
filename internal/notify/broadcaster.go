package notify

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/poll"
	"github.com/aldiyarbek/quizduel/internal/session"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
	"github.com/aldiyarbek/quizduel/pkg/http/ws"
)

// Message types pushed to notification sockets.
const (
	MsgInbox = "inbox"
	MsgStats = "stats"
)

// Broadcaster bridges the poll watcher onto WebSocket connections: each
// connected user gets a watch on their inbox and stats, and every change
// becomes a pushed message. Clients without a socket fall back to polling
// the same REST endpoints the watcher reads.
type Broadcaster struct {
	hub      *ws.Hub
	watcher  *poll.Watcher
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewBroadcaster(hub *ws.Hub, watcher *poll.Watcher, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:     hub,
		watcher: watcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// ServeHTTP handles GET /ws/notifications.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	sock, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConnection(sock, b.logger)
	b.hub.Register(sess.UserID, conn)

	ctx, cancel := context.WithCancel(context.Background())

	go conn.WritePump()
	go b.watch(ctx, sess.UserID)
	go conn.ReadPump(func() {
		cancel()
		b.hub.Unregister(sess.UserID, conn)
	})
}

// watch delivers through the hub rather than a captured connection, so a
// reconnecting client keeps receiving on its replacement socket until this
// watch winds down. A user with no connection at all ends the watch.
func (b *Broadcaster) watch(ctx context.Context, userID uuid.UUID) {
	inbox := b.watcher.WatchInbox(ctx, userID)
	stats := b.watcher.WatchStats(ctx, userID)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-inbox:
			if !ok {
				return
			}
			if !b.push(userID, ws.NewMessage(MsgInbox, snap)) {
				return
			}
		case st, ok := <-stats:
			if !ok {
				return
			}
			if !b.push(userID, ws.NewMessage(MsgStats, st)) {
				return
			}
		}
	}
}

func (b *Broadcaster) push(userID uuid.UUID, msg ws.Message) bool {
	err := b.hub.SendToUser(userID, msg)
	if errors.Is(err, ws.ErrConnectionNotFound) {
		return false
	}
	if err != nil {
		b.logger.Debug().Err(err).Str("type", msg.Type).Msg("push failed")
	}
	return true
}
