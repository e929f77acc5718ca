// Package gateway bridges WebSocket clients to table actors. One goroutine
// pair per connection: readPump decodes client envelopes and submits table
// events, writePump drains the buffered send queue. A slow client loses
// messages rather than stalling the table.
package gateway

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"idoubtit-lite/apps/server/internal/auth"
	"idoubtit-lite/apps/server/internal/codec"
	"idoubtit-lite/apps/server/internal/lobby"
	"idoubtit-lite/apps/server/internal/prefs"
	"idoubtit-lite/apps/server/internal/table"
	"idoubtit-lite/doubt"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 65536
	sendQueueSize  = 256
	replyWait      = 5 * time.Second
)

type Gateway struct {
	lobby *lobby.Lobby
	auth  auth.Service
	prefs prefs.Service

	upgrader websocket.Upgrader
}

func New(lby *lobby.Lobby, authSvc auth.Service, prefsSvc prefs.Service) *Gateway {
	return &Gateway{
		lobby: lby,
		auth:  authSvc,
		prefs: prefsSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 客户端来源在反向代理层校验
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type client struct {
	gw       *Gateway
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	userID   uint64
	username string
	table    *table.Table
}

// ServeWS upgrades the connection. The session token rides the query
// string because browsers cannot set headers on WebSocket dials.
func (gw *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	accountID, username, ok := gw.auth.ResolveSession(token)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := gw.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] upgrade failed: %v", err)
		return
	}

	c := &client{
		gw:       gw,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
		userID:   accountID,
		username: username,
	}
	log.Printf("[Gateway] user %d (%s) connected", accountID, username)

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		if c.table != nil {
			c.table.SubmitEvent(&table.Event{Type: table.EventLeave, UserID: c.userID})
		}
		close(c.done)
		c.conn.Close()
		log.Printf("[Gateway] user %d disconnected", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Gateway] user %d read error: %v", c.userID, err)
			}
			return
		}
		env, err := codec.DecodeClient(data)
		if err != nil {
			c.sendError(table.CodeBadEnvelope, "malformed envelope")
			continue
		}
		c.dispatch(env)
	}
}

func (c *client) dispatch(env *codec.ClientEnvelope) {
	switch env.Type {
	case codec.ClientTypeJoin:
		c.handleJoin(env)
	case codec.ClientTypePlay:
		c.submit(&table.Event{Type: table.EventPlay, UserID: c.userID, Play: env.Play})
	case codec.ClientTypeDoubt:
		c.submit(&table.Event{Type: table.EventDoubt, UserID: c.userID})
	case codec.ClientTypeLeave:
		if c.table != nil {
			c.table.SubmitEvent(&table.Event{Type: table.EventLeave, UserID: c.userID})
			c.table = nil
		}
	default:
		c.sendError(table.CodeBadEnvelope, "unknown message type")
	}
}

func (c *client) handleJoin(env *codec.ClientEnvelope) {
	var tbl *table.Table
	if env.TableID != "" {
		tbl = c.gw.lobby.Get(env.TableID)
		if tbl == nil {
			c.sendError(table.CodeRoundClosed, "no such table")
			return
		}
	} else {
		var err error
		tbl, err = c.gw.quickStartFor(c.userID)
		if err != nil {
			c.sendError(table.CodeRoundClosed, err.Error())
			return
		}
	}

	nickname := c.username
	if env.Join != nil && env.Join.Nickname != "" {
		nickname = env.Join.Nickname
	}
	c.table = tbl
	c.submit(&table.Event{
		Type:     table.EventJoin,
		UserID:   c.userID,
		Nickname: nickname,
		Sink:     c.enqueue,
	})
}

// quickStartFor builds a table from the account's saved preferences,
// falling back to defaults when none are stored.
func (gw *Gateway) quickStartFor(accountID uint64) (*table.Table, error) {
	level := doubt.DifficultyMedium
	wacky := false
	seats := 0
	if gw.prefs != nil && accountID != 0 {
		if p, err := gw.prefs.Get(context.Background(), accountID); err == nil && p != nil {
			wacky = p.Wacky
			if lv, perr := doubt.ParseDifficulty(p.Difficulty); perr == nil {
				level = lv
			}
			if p.Opponents > 0 {
				seats = p.Opponents + 1
			}
		}
	}
	return gw.lobby.QuickStart(level, wacky, seats)
}

func (c *client) submit(ev *table.Event) {
	if c.table == nil {
		c.sendError(table.CodeNotSeated, "join a table first")
		return
	}
	ev.Reply = make(chan *codec.ServerEnvelope, 1)
	if !c.table.SubmitEvent(ev) {
		c.sendError(table.CodeRoundClosed, "table is closed")
		c.table = nil
		return
	}
	select {
	case env := <-ev.Reply:
		if env != nil {
			c.enqueue(env)
		}
	case <-time.After(replyWait):
		log.Printf("[Gateway] user %d reply timed out", c.userID)
	}
}

// enqueue is the table's sink for this client. Drop on a full queue so
// one stuck connection cannot back-pressure the actor.
func (c *client) enqueue(env *codec.ServerEnvelope) {
	data, err := codec.Encode(env)
	if err != nil {
		log.Printf("[Gateway] encode failed: %v", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Printf("[Gateway] user %d send queue full, dropping %s", c.userID, env.Type)
	}
}

func (c *client) sendError(code int32, msg string) {
	env := codec.WrapServerEnvelope("", 0, codec.ServerTypeError)
	env.Error = &codec.ErrorResponse{Code: code, Message: msg}
	c.enqueue(env)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
