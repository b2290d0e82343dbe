package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	m.Run()
}

// 手写的内存版 mock，行为可按用例逐项覆盖。

type mockProfileRepo struct {
	profiles map[string]*model.UserProfile
	findErr  error
	saveErr  error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.UserProfile)}
}

func (m *mockProfileRepo) FindByUserID(userID string) (*model.UserProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepo) Create(profile *model.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) Save(profile *model.UserProfile) error {
	return m.Create(profile)
}

type mockConversationRepo struct {
	conversations []model.Conversation
	created       []*model.Conversation
	createErr     error
	recentCalls   int
}

func (m *mockConversationRepo) Create(conversation *model.Conversation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, conversation)
	m.conversations = append(m.conversations, *conversation)
	return nil
}

func (m *mockConversationRepo) FindRecentByUserID(userID string, limit int) ([]model.Conversation, error) {
	m.recentCalls++
	var out []model.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockConversationRepo) FindFiltered(filter repository.ConversationFilter) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range m.conversations {
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type mockNoteRepo struct {
	notes []model.ContextNote
}

func (m *mockNoteRepo) Create(note *model.ContextNote) error {
	m.notes = append(m.notes, *note)
	return nil
}

func (m *mockNoteRepo) FindActiveByUserID(userID string) ([]model.ContextNote, error) {
	var out []model.ContextNote
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockSessionRepo struct {
	sessions      map[string]*model.ChatSession
	statusUpdates map[string]string
	createErr     error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions:      make(map[string]*model.ChatSession),
		statusUpdates: make(map[string]string),
	}
}

func (m *mockSessionRepo) Create(session *model.ChatSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) FindBySessionID(sessionID string) (*model.ChatSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) UpdateStatus(sessionID, status string) error {
	m.statusUpdates[sessionID] = status
	return nil
}

// mockCache 记录每次调用，可通过 failing 模拟缓存故障。
type mockCache struct {
	contexts map[string]*model.UserContext
	sessions map[string]*model.ChatSession
	failing  bool

	contextGets    int
	contextSets    int
	contextDeletes int
}

func newMockCache() *mockCache {
	return &mockCache{
		contexts: make(map[string]*model.UserContext),
		sessions: make(map[string]*model.ChatSession),
	}
}

var errCacheDown = errors.New("cache unavailable")

func (m *mockCache) GetContext(ctx context.Context, userID string) (*model.UserContext, error) {
	m.contextGets++
	if m.failing {
		return nil, errCacheDown
	}
	return m.contexts[userID], nil
}

func (m *mockCache) SetContext(ctx context.Context, userID string, uc *model.UserContext, ttl time.Duration) error {
	m.contextSets++
	if m.failing {
		return errCacheDown
	}
	m.contexts[userID] = uc
	return nil
}

func (m *mockCache) DeleteContext(ctx context.Context, userID string) error {
	m.contextDeletes++
	if m.failing {
		return errCacheDown
	}
	delete(m.contexts, userID)
	return nil
}

func (m *mockCache) GetSession(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	if m.failing {
		return nil, errCacheDown
	}
	return m.sessions[sessionID], nil
}

func (m *mockCache) SetSession(ctx context.Context, sessionID string, session *model.ChatSession, ttl time.Duration) error {
	if m.failing {
		return errCacheDown
	}
	m.sessions[sessionID] = session
	return nil
}

func (m *mockCache) Ping(ctx context.Context) error {
	if m.failing {
		return errCacheDown
	}
	return nil
}

// mockPublisher 收集发布的事件。
type mockPublisher struct {
	published []events.AnalyticsEvent
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, evt events.AnalyticsEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, evt)
	return nil
}
