package chat

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/ai"
	"github.com/loggpt/components-room/internal/common"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Service runs the assistant pipeline: snapshot, prompt, provider call,
// fallback, persistence. A nil provider means the fallback always answers.
type Service struct {
	db            *gorm.DB
	repo          *Repo
	provider      ai.Provider
	historyWindow int
}

func NewService(db *gorm.DB, repo *Repo, provider ai.Provider, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = 6
	}
	return &Service{db: db, repo: repo, provider: provider, historyWindow: historyWindow}
}

type SendResult struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversation_id"`
	Suggestions    []string `json:"suggestions"`
}

func truncateTitle(s string) string {
	if len(s) > 50 {
		return s[:50] + "..."
	}
	return s
}

// Send answers one user message. The provider is best-effort: any error is
// logged and the rule-based fallback takes over, so the endpoint never fails
// because a vendor is down.
func (s *Service) Send(ctx context.Context, ownerID *uint64, conversationID, message string) (*SendResult, error) {
	conv, err := s.getOrCreateConversation(ctx, ownerID, conversationID, message)
	if err != nil {
		return nil, err
	}

	snap, err := BuildSnapshot(ctx, s.db)
	if err != nil {
		return nil, err
	}

	role := "student"
	systemPrompt := BuildSystemPrompt(snap, role)
	intent := ClassifyIntent(message)

	history, err := s.repo.RecentMessages(ctx, conv.ConversationID, s.historyWindow)
	if err != nil {
		return nil, err
	}

	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: message})

	var answer string
	if s.provider != nil {
		answer, err = s.provider.Chat(ctx, msgs)
		if err != nil {
			log.Printf("chat: provider error, using fallback: %v", err)
			answer = ""
		}
	}
	if answer == "" {
		answer = Fallback(message, intent, snap)
	}

	userMsg := &Message{ConversationID: conv.ConversationID, Role: ai.RoleUser, Content: message}
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	assistantMsg := &Message{ConversationID: conv.ConversationID, Role: ai.RoleAssistant, Content: answer}
	if err := s.repo.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}
	if err := s.repo.TouchConversation(ctx, conv.ConversationID); err != nil {
		return nil, err
	}

	return &SendResult{
		Message:        answer,
		ConversationID: conv.ConversationID,
		Suggestions:    Suggestions(intent, snap),
	}, nil
}

func (s *Service) getOrCreateConversation(ctx context.Context, ownerID *uint64, conversationID, firstMessage string) (*Conversation, error) {
	if conversationID != "" {
		conv, err := s.repo.FindConversation(ctx, conversationID, ownerID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	conv := &Conversation{
		ConversationID: id,
		UserID:         ownerID,
		Title:          truncateTitle(firstMessage),
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

type ConversationDetail struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

func (s *Service) ListConversations(ctx context.Context, ownerID *uint64) ([]ConversationDetail, error) {
	convs, err := s.repo.ListConversations(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationDetail, 0, len(convs))
	for _, c := range convs {
		msgs, err := s.repo.ListMessages(ctx, c.ConversationID)
		if err != nil {
			return nil, err
		}
		out = append(out, conversationDetail(&c, msgs))
	}
	return out, nil
}

func (s *Service) GetConversation(ctx context.Context, conversationID string, ownerID *uint64) (*ConversationDetail, error) {
	conv, err := s.repo.FindConversation(ctx, conversationID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, conv.ConversationID)
	if err != nil {
		return nil, err
	}
	detail := conversationDetail(conv, msgs)
	return &detail, nil
}

func conversationDetail(c *Conversation, msgs []Message) ConversationDetail {
	if msgs == nil {
		msgs = []Message{}
	}
	return ConversationDetail{
		ID:        c.ConversationID,
		Title:     c.Title,
		Messages:  msgs,
		CreatedAt: c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Service) DeleteConversation(ctx context.Context, conversationID string, ownerID *uint64) error {
	n, err := s.repo.DeleteConversation(ctx, conversationID, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

type ConversationSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int64  `json:"message_count"`
}

func (s *Service) HistorySummaries(ctx context.Context, ownerID *uint64) ([]ConversationSummary, error) {
	convs, err := s.repo.ListConversations(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationSummary, 0, len(convs))
	if len(convs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ConversationID)
	}
	counts, err := s.repo.MessageCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range convs {
		out = append(out, ConversationSummary{
			ID:           c.ConversationID,
			Title:        c.Title,
			CreatedAt:    c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:    c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			MessageCount: counts[c.ConversationID],
		})
	}
	return out, nil
}

func (s *Service) ClearHistory(ctx context.Context, ownerID *uint64) error {
	return s.repo.ClearConversations(ctx, ownerID)
}
