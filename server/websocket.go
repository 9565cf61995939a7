package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/config"
	"github.com/tabletalk-ai/tabletalk/dialogue"
	"github.com/tabletalk-ai/tabletalk/messages"
	"github.com/tabletalk-ai/tabletalk/store"
)

// WS serves the streaming chat transport: one conversation per connection,
// text turns in, typed envelopes out.
type WS struct {
	httpServer    *http.Server
	upgrader      websocket.Upgrader
	engine        *dialogue.Engine
	conversations *store.Conversations
	log           *zap.Logger
}

// NewWS builds the WebSocket server.
func NewWS(cfg *config.Config, engine *dialogue.Engine, conversations *store.Conversations, log *zap.Logger) *WS {
	if log == nil {
		log = zap.NewNop()
	}

	s := &WS{
		engine:        engine,
		conversations: conversations,
		log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    16 * 1024,
			WriteBufferSize:   16 * 1024,
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range cfg.AllowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	// When running as the standalone WebSocket server, use the main port.
	port := cfg.WSPort
	if cfg.ServerType == "websocket" {
		port = cfg.Port
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
		// No ReadTimeout/WriteTimeout: they would cut off long-lived
		// WebSocket connections.
	}
	return s
}

// Start begins listening for connections.
func (s *WS) Start() error {
	s.log.Info("WebSocket server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *WS) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down WebSocket server")
	return s.httpServer.Shutdown(ctx)
}

func (s *WS) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conv, err := s.conversations.GetOrCreate(r.Context(), r.URL.Query().Get("conversationId"))
	if err != nil {
		_ = conn.WriteJSON(messages.NewErrorMessage("", messages.ErrCodeConversationFailed, err.Error()))
		return
	}

	s.log.Info("conversation attached", zap.String("conversationId", conv.ID))
	_ = conn.WriteJSON(messages.NewStatusMessage(conv.ID, "connected", "Conversation established"))

	conn.SetReadLimit(64 * 1024)
	s.readLoop(conn, conv.ID)
	s.log.Info("conversation detached", zap.String("conversationId", conv.ID))
}

func (s *WS) readLoop(conn *websocket.Conn, conversationID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg messages.ClientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeInvalidMessage, "malformed message"))
			continue
		}
		s.processMessage(conn, conversationID, &msg)
	}
}

func (s *WS) processMessage(conn *websocket.Conn, conversationID string, msg *messages.ClientMessage) {
	switch msg.Type {
	case messages.TypeText:
		var payload messages.TextPayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil || payload.Text == "" {
			_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeInvalidMessage, "text payload required"))
			return
		}
		s.runTurn(conn, conversationID, payload.Text)

	case messages.TypeControl:
		var payload messages.ControlPayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
			_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeInvalidMessage, "malformed control payload"))
			return
		}
		s.handleControl(conn, conversationID, &payload)

	default:
		_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeInvalidMessage,
			fmt.Sprintf("unknown message type: %s", msg.Type)))
	}
}

func (s *WS) runTurn(conn *websocket.Conn, conversationID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	conv, err := s.conversations.GetOrCreate(ctx, conversationID)
	if err != nil {
		_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeConversationFailed, err.Error()))
		return
	}

	turn, err := s.engine.HandleTurn(ctx, text, conv.Context)
	if err != nil {
		s.log.Error("turn failed", zap.String("conversationId", conversationID), zap.Error(err))
		// The engine response is already a polite sentence; send it as the
		// turn text along with the machine-readable error.
		_ = conn.WriteJSON(messages.NewTextMessage(conversationID, turn.Response, turn.Context))
		_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeTurnFailed, err.Error()))
		return
	}

	s.conversations.RecordTurn(ctx, conversationID, text, turn.Response, turn.Context)

	_ = conn.WriteJSON(messages.NewTextMessage(conversationID, turn.Response, turn.Context))
	if turn.BookingComplete && turn.Booking != nil {
		_ = conn.WriteJSON(messages.NewBookingMessage(conversationID, *turn.Booking))
	}
}

func (s *WS) handleControl(conn *websocket.Conn, conversationID string, payload *messages.ControlPayload) {
	switch payload.Action {
	case "ping":
		_ = conn.WriteJSON(messages.NewStatusMessage(conversationID, "pong", ""))
	case "reset":
		s.conversations.Reset(context.Background(), conversationID)
		_ = conn.WriteJSON(messages.NewStatusMessage(conversationID, "reset", "Conversation restarted"))
	default:
		_ = conn.WriteJSON(messages.NewErrorMessage(conversationID, messages.ErrCodeInvalidMessage,
			fmt.Sprintf("unknown control action: %s", payload.Action)))
	}
}

func (s *WS) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","conversations":%d}`, s.conversations.Count())
}
