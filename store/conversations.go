package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// Conversation pairs the accumulated booking context with its append-only
// display log. The engine only ever sees the context; the message log is
// kept for callers that render history.
type Conversation struct {
	ID           string                        `json:"id"`
	Context      booking.Context               `json:"context"`
	Messages     []booking.ConversationMessage `json:"messages"`
	CreatedAt    time.Time                     `json:"createdAt"`
	LastActivity time.Time                     `json:"lastActivity"`
}

// Conversations manages all live conversations: an in-memory map guarded by
// a mutex, with best-effort Redis mirroring and periodic idle cleanup.
type Conversations struct {
	mu   sync.RWMutex
	byID map[string]*Conversation

	max     int
	timeout time.Duration
	redis   *redis.Client
	log     *zap.Logger
}

// NewConversations builds a conversation manager; rdb may be nil.
func NewConversations(max int, timeout time.Duration, rdb *redis.Client, log *zap.Logger) *Conversations {
	if log == nil {
		log = zap.NewNop()
	}
	return &Conversations{
		byID:    make(map[string]*Conversation),
		max:     max,
		timeout: timeout,
		redis:   rdb,
		log:     log,
	}
}

// GetOrCreate returns the conversation with the given ID, minting a fresh
// one (and a fresh ID when none is supplied) if it does not exist yet.
func (m *Conversations) GetOrCreate(ctx context.Context, id string) (Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if conv, ok := m.byID[id]; ok {
			return *conv, nil
		}
	}
	if len(m.byID) >= m.max {
		return Conversation{}, fmt.Errorf("maximum conversations reached (%d)", m.max)
	}

	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	conv := &Conversation{
		ID:           id,
		Context:      booking.NewContext(),
		CreatedAt:    now,
		LastActivity: now,
	}
	m.byID[id] = conv
	return *conv, nil
}

// RecordTurn appends the user/assistant exchange to the log, replaces the
// context, and refreshes the activity timestamp.
func (m *Conversations) RecordTurn(ctx context.Context, id, userMessage, reply string, bctx booking.Context) {
	m.mu.Lock()
	conv, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	conv.Messages = append(conv.Messages,
		booking.NewMessage(booking.RoleUser, userMessage),
		booking.NewMessage(booking.RoleAssistant, reply),
	)
	conv.Context = bctx
	conv.LastActivity = time.Now().UTC()
	snapshot := *conv
	m.mu.Unlock()

	m.mirror(ctx, snapshot)
}

// Reset returns the conversation to a fresh greeting context, keeping its ID.
func (m *Conversations) Reset(ctx context.Context, id string) {
	m.mu.Lock()
	conv, ok := m.byID[id]
	if ok {
		conv.Context = booking.NewContext()
		conv.Messages = nil
		conv.LastActivity = time.Now().UTC()
	}
	m.mu.Unlock()
}

// Remove drops a conversation entirely.
func (m *Conversations) Remove(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()

	if m.redis != nil {
		m.redis.Del(ctx, "conversation:"+id)
	}
}

// Count returns the number of live conversations.
func (m *Conversations) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// CleanupInactive removes conversations idle past the timeout.
func (m *Conversations) CleanupInactive(ctx context.Context) {
	now := time.Now().UTC()

	m.mu.Lock()
	var expired []string
	for id, conv := range m.byID {
		if now.Sub(conv.LastActivity) > m.timeout {
			delete(m.byID, id)
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if m.redis != nil {
			m.redis.Del(ctx, "conversation:"+id)
		}
		m.log.Debug("expired idle conversation", zap.String("conversationId", id))
	}
}

// StartCleanupRoutine runs CleanupInactive once a minute until ctx is done.
func (m *Conversations) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupInactive(ctx)
		}
	}
}

// Shutdown drops all conversations and closes the Redis mirror.
func (m *Conversations) Shutdown() {
	m.mu.Lock()
	m.byID = make(map[string]*Conversation)
	m.mu.Unlock()

	if m.redis != nil {
		_ = m.redis.Close()
	}
}

func (m *Conversations) mirror(ctx context.Context, conv Conversation) {
	if m.redis == nil {
		return
	}
	data, err := sonic.Marshal(conv.Context)
	if err != nil {
		m.log.Warn("failed to encode context for mirror", zap.Error(err))
		return
	}
	key := "conversation:" + conv.ID
	m.redis.HSet(ctx, key, map[string]interface{}{
		"context":       string(data),
		"last_activity": conv.LastActivity.Format(time.RFC3339),
		"messages":      len(conv.Messages),
	})
	m.redis.Expire(ctx, key, m.timeout)
}
