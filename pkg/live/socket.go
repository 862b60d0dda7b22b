package live

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// handleSocket upgrades the connection, sends the current snapshot and
// feeds client events to the loop until the client goes away.
func (s *Session) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}

	if err := s.loop.Do(r.Context(), func() { s.attach(conn) }); err != nil {
		conn.Close()
		return
	}
	defer s.loop.Submit(func() { s.detach(conn) })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var ev ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn("client message decode error", "error", err)
			continue
		}
		if err := s.loop.Submit(func() { s.handleEvent(conn, ev) }); err != nil {
			return
		}
	}
}

func (s *Session) attach(conn *websocket.Conn) {
	id := uuid.NewString()
	s.clients[conn] = id
	s.logger.Info("client connected", "client", id, "remote", conn.RemoteAddr(), "clients", len(s.clients))
	s.write(conn, Message{Type: MessageSnapshot, Seq: s.seq, Client: id, HTML: s.html(true)})
}

func (s *Session) detach(conn *websocket.Conn) {
	id, ok := s.clients[conn]
	if !ok {
		return
	}
	delete(s.clients, conn)
	conn.Close()
	s.logger.Info("client disconnected", "client", id, "clients", len(s.clients))
}

func (s *Session) handleEvent(conn *websocket.Conn, ev ClientEvent) {
	id, ok := s.clients[conn]
	if !ok {
		return
	}
	if err := s.dispatch(ev); err != nil {
		s.logger.Warn("client event rejected", "client", id, "error", err)
		s.write(conn, Message{Type: MessageError, Seq: s.seq, Error: err.Error()})
	}
}

// write sends msg to conn, dropping the client on failure.
func (s *Session) write(conn *websocket.Conn, msg Message) {
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("write failed", "client", s.clients[conn], "error", err)
		s.detach(conn)
	}
}
