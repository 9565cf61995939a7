package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/config"
	"github.com/tabletalk-ai/tabletalk/dialogue"
	"github.com/tabletalk-ai/tabletalk/store"
)

// API is the REST surface: one chat endpoint plus booking inspection. The
// conversation context round-trips through the conversation store keyed by
// conversationId, so clients only hold the ID.
type API struct {
	httpServer    *http.Server
	engine        *dialogue.Engine
	conversations *store.Conversations
	bookings      *store.Bookings
	log           *zap.Logger
}

// NewAPI builds the gin router and wires all endpoints.
func NewAPI(cfg *config.Config, engine *dialogue.Engine, conversations *store.Conversations, bookings *store.Bookings, log *zap.Logger) *API {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	a := &API{
		engine:        engine,
		conversations: conversations,
		bookings:      bookings,
		log:           log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", a.handleHealth)
	api := r.Group("/api")
	{
		api.POST("/chat", a.handleChat)
		api.GET("/bookings", a.handleListBookings)
		api.GET("/bookings/:id", a.handleGetBooking)
		api.POST("/bookings/:id/cancel", a.handleCancelBooking)
	}

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return a
}

// Start begins listening for connections.
func (a *API) Start() error {
	a.log.Info("HTTP API starting", zap.String("addr", a.httpServer.Addr))
	return a.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (a *API) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down HTTP API")
	return a.httpServer.Shutdown(ctx)
}

type chatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message" binding:"required"`
}

type chatResponse struct {
	ConversationID  string           `json:"conversationId"`
	Response        string           `json:"response"`
	Context         booking.Context  `json:"context"`
	BookingComplete bool             `json:"bookingComplete,omitempty"`
	Booking         *booking.Booking `json:"booking,omitempty"`
}

func (a *API) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	conv, err := a.conversations.GetOrCreate(c.Request.Context(), req.ConversationID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "conversation unavailable", "details": err.Error()})
		return
	}

	turn, err := a.engine.HandleTurn(c.Request.Context(), req.Message, conv.Context)
	if err != nil {
		// Booking creation is the one failure worth surfacing; the engine
		// already phrased a polite response for conversational clients.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking creation failed", "details": err.Error()})
		return
	}

	a.conversations.RecordTurn(c.Request.Context(), conv.ID, req.Message, turn.Response, turn.Context)

	c.JSON(http.StatusOK, chatResponse{
		ConversationID:  conv.ID,
		Response:        turn.Response,
		Context:         turn.Context,
		BookingComplete: turn.BookingComplete,
		Booking:         turn.Booking,
	})
}

func (a *API) handleListBookings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bookings": a.bookings.List(c.Request.Context())})
}

func (a *API) handleGetBooking(c *gin.Context) {
	b, ok := a.bookings.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *API) handleCancelBooking(c *gin.Context) {
	if !a.bookings.Cancel(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"conversations": a.conversations.Count(),
	})
}
