// Package web serves browser players over websockets and the group invite QR code
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// sessionPrefix keeps web session ids apart from chat ids
const sessionPrefix = "web:"

// Interpreter turns chat events into directives
type Interpreter interface {
	HandleCommand(ctx context.Context, ev models.CommandEvent) []models.Directive
	HandleLifecycle(ev models.LifecycleEvent) []models.Directive
}

// Server is the HTTP side of the bot
type Server struct {
	interp    Interpreter
	hub       *Hub
	logger    *zap.Logger
	inviteURL string
	upgrader  websocket.Upgrader
	baseCtx   context.Context
}

// NewServer creates a server; inviteURL may be empty to disable /invite.png
func NewServer(interp Interpreter, inviteURL string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		interp:    interp,
		hub:       newHub(logger),
		logger:    logger,
		inviteURL: inviteURL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		baseCtx: context.Background(),
	}
}

// Handler routes the server's endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/invite.png", s.HandleInvite)
	mux.HandleFunc("/healthz", s.HandleHealth)
	return mux
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.baseCtx = ctx
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("web server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

// HandleWebSocket upgrades /ws?session=&user=&name= to a player connection
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	session := strings.TrimSpace(q.Get("session"))
	user := strings.TrimSpace(q.Get("user"))
	if session == "" || user == "" {
		http.Error(w, "session and user are required", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		name = user
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:        uuid.NewString(),
		sessionID: sessionPrefix + session,
		userID:    user,
		name:      name,
		conn:      conn,
		server:    s,
		send:      make(chan Message, 64),
		done:      make(chan struct{}),
	}
	s.hub.add(c)
	s.logger.Info("web client connected",
		zap.String("conn", c.id), zap.String("session", c.sessionID), zap.String("user", c.userID),
		zap.Int("connections", s.hub.count(c.sessionID)))

	go c.writeLoop()
	c.deliver(Message{Type: TypeGreeting, Text: render.Greeting()})
	go c.readLoop(s.baseCtx)
}

// HandleInvite renders the invite URL as a QR code
func (s *Server) HandleInvite(w http.ResponseWriter, r *http.Request) {
	if s.inviteURL == "" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(s.inviteURL, qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("invite qr code failed", zap.Error(err))
		http.Error(w, "Failed to render invite", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

// HandleHealth answers liveness probes
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// disconnect drops a client; the session ends with its last connection
func (s *Server) disconnect(c *client) {
	if !s.hub.remove(c) {
		return
	}
	s.logger.Info("last web client left", zap.String("session", c.sessionID))
	s.dispatch(s.interp.HandleLifecycle(models.LifecycleEvent{Kind: models.BotLeft, SessionID: c.sessionID}))
}

// dispatch carries out directives over the hub
func (s *Server) dispatch(directives []models.Directive) {
	for _, d := range directives {
		switch d.Kind {
		case models.DirectiveReply:
			s.hub.broadcast(d.SessionID, Message{Type: TypeReply, Text: d.Text})
		case models.DirectivePrivate:
			s.hub.sendTo(d.SessionID, d.UserID, Message{Type: TypePrivate, Text: d.Text})
		case models.DirectiveLeave:
			s.hub.broadcast(d.SessionID, Message{Type: TypeLeave})
		}
	}
}
