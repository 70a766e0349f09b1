package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/repository"
	"github.com/Devarsh-42/InsureBuddy/internal/worker"
)

const DefaultReplyDelay = time.Second

var ErrUnsupportedLanguage = errors.New("unsupported language")

var SupportedLanguages = []models.Language{
	{Name: "English", Code: "en"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Tamil", Code: "ta"},
	{Name: "Bengali", Code: "bn"},
}

func LookupLanguage(code string) (models.Language, bool) {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return models.Language{}, false
}

// Publisher pushes session updates to connected clients.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) error
}

type replyScheduler interface {
	Schedule(task worker.ReplyTask) error
}

// ChatSession is one widget conversation. Messages are append-only.
type ChatSession struct {
	mu       sync.Mutex
	id       uuid.UUID
	messages []models.ChatMessage
	pending  int
	language models.Language
}

func newChatSession(id uuid.UUID, greeting string, now time.Time) *ChatSession {
	s := &ChatSession{id: id, language: SupportedLanguages[0]}
	s.messages = append(s.messages, models.ChatMessage{
		ID:        1,
		Content:   greeting,
		Sender:    models.SenderAssistant,
		Timestamp: now,
	})
	return s
}

// appendLocked adds a message numbered by its position. Callers hold mu.
func (s *ChatSession) appendLocked(content string, sender models.Sender, now time.Time) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        len(s.messages) + 1,
		Content:   content,
		Sender:    sender,
		Timestamp: now,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// submit schedules the reply and appends the user message in one critical
// section, so replies queue in the same order as the messages they answer
// and a reply can never be appended ahead of its question. Nothing is
// appended when schedule fails.
func (s *ChatSession) submit(content string, schedule func(now time.Time) error, appended func(models.ChatMessage)) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if err := schedule(now); err != nil {
		return models.ChatMessage{}, err
	}
	s.pending++
	msg := s.appendLocked(content, models.SenderUser, now)
	appended(msg)
	return msg, nil
}

func (s *ChatSession) addReply(content string, now time.Time) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
	}
	return s.appendLocked(content, models.SenderAssistant, now)
}

func (s *ChatSession) stateLocked() models.ChatState {
	if s.pending > 0 {
		return models.ChatAwaitingResponse
	}
	return models.ChatIdle
}

func (s *ChatSession) State() models.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

func (s *ChatSession) setLanguage(l models.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = l
}

// View copies the session so callers can read it without the lock.
func (s *ChatSession) View() *models.ChatSessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]models.ChatMessage, len(s.messages))
	copy(msgs, s.messages)
	return &models.ChatSessionView{
		ID:       s.id,
		State:    s.stateLocked(),
		Language: s.language,
		Messages: msgs,
	}
}

type ChatService struct {
	sessions  *repository.SessionStore[*ChatSession]
	responder *Responder
	scheduler replyScheduler
	publisher Publisher
	delay     time.Duration
	logger    *zap.Logger
}

func NewChatService(
	sessions *repository.SessionStore[*ChatSession],
	responder *Responder,
	scheduler replyScheduler,
	publisher Publisher,
	delay time.Duration,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessions:  sessions,
		responder: responder,
		scheduler: scheduler,
		publisher: publisher,
		delay:     delay,
		logger:    logger,
	}
}

func (s *ChatService) CreateSession(ctx context.Context) *models.ChatSessionView {
	session := newChatSession(uuid.New(), s.responder.Greeting(), time.Now().UTC())
	s.sessions.Put(session.id, session)
	s.logger.Debug("chat session created", zap.String("session_id", session.id.String()))
	return session.View()
}

func (s *ChatService) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return session.View(), nil
}

func (s *ChatService) SetLanguage(ctx context.Context, id uuid.UUID, code string) (*models.ChatSessionView, error) {
	lang, ok := LookupLanguage(code)
	if !ok {
		return nil, ErrUnsupportedLanguage
	}
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.setLanguage(lang)
	return session.View(), nil
}

// Send appends the user's message and schedules the assistant reply after
// the fixed delay. Blank text is ignored: it returns a nil message and
// changes nothing. If the reply cannot be scheduled the session is left
// untouched and the error is returned.
func (s *ChatService) Send(ctx context.Context, id uuid.UUID, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	schedule := func(now time.Time) error {
		return s.scheduler.Schedule(worker.ReplyTask{
			SessionID: session.id,
			UserText:  text,
			DueAt:     now.Add(s.delay),
			Run: func(ctx context.Context, t worker.ReplyTask) {
				reply := session.addReply(s.responder.SelectResponse(t.UserText), time.Now().UTC())
				s.publish(ctx, t.SessionID, reply)
			},
		})
	}
	// Published inside the session lock so the reply's push cannot overtake it.
	appended := func(msg models.ChatMessage) { s.publish(ctx, session.id, msg) }

	msg, err := session.submit(text, schedule, appended)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reply: %w", err)
	}
	return &msg, nil
}

func (s *ChatService) publish(ctx context.Context, sessionID uuid.UUID, msg models.ChatMessage) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, sessionID, models.WSMessage{Type: models.WSChatMessage, Payload: msg})
	if err != nil {
		s.logger.Warn("failed to publish chat message",
			zap.String("session_id", sessionID.String()),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}
