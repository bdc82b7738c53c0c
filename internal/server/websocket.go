package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ecoquiz-duel/internal/hub"
	"ecoquiz-duel/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// handleWebSocket serves one player for the lifetime of the connection.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("server: websocket upgrade failed", "error", err)
		return
	}

	client := hub.NewClient(uuid.NewString())
	s.hub.Register(client)
	slog.Info("server: client connected", "conn_id", client.ID, "remote", c.ClientIP())

	go s.writePump(conn, client)
	s.readPump(conn, client)
}

func (s *Server) readPump(conn *websocket.Conn, client *hub.Client) {
	defer func() {
		s.hub.Unregister(client.ID)
		s.game.Disconnect(client.ID)
		conn.Close()
		slog.Info("server: client disconnected", "conn_id", client.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				slog.Warn("server: websocket read failed", "conn_id", client.ID, "error", err)
			}
			return
		}

		s.dispatch(client.ID, data)
	}
}

func (s *Server) writePump(conn *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("server: websocket write failed", "conn_id", client.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound frame to the game service. Malformed frames
// are logged and dropped.
func (s *Server) dispatch(connID string, data []byte) {
	var msg models.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Debug("server: malformed frame", "conn_id", connID, "error", err)
		return
	}

	switch msg.Type {
	case models.TypeJoinQueue:
		var req models.JoinQueueRequest
		if err := decode(msg.Data, &req); err != nil {
			slog.Debug("server: bad join-queue payload", "conn_id", connID, "error", err)
		}
		s.game.JoinQueue(connID, req.Name)

	case models.TypeAnswerQuestion:
		var req models.AnswerRequest
		if err := decode(msg.Data, &req); err != nil {
			slog.Debug("server: bad answer payload", "conn_id", connID, "error", err)
			return
		}
		s.game.SubmitAnswer(connID, req)

	case models.TypeQuestionTimeout:
		var req models.TimeoutRequest
		if err := decode(msg.Data, &req); err != nil {
			slog.Debug("server: bad timeout payload", "conn_id", connID, "error", err)
			return
		}
		s.game.QuestionTimeout(connID, req.GameID)

	default:
		slog.Debug("server: unknown message type", "conn_id", connID, "type", msg.Type)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}
