package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ownerScope matches conversations of a specific user, or anonymous ones
// when ownerID is nil.
func ownerScope(q *gorm.DB, ownerID *uint64) *gorm.DB {
	if ownerID == nil {
		return q.Where("user_id IS NULL")
	}
	return q.Where("user_id = ?", *ownerID)
}

func (r *Repo) CreateConversation(ctx context.Context, c *Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) FindConversation(ctx context.Context, conversationID string, ownerID *uint64) (*Conversation, error) {
	var c Conversation
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if err := ownerScope(q, ownerID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) TouchConversation(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).Model(&Conversation{}).
		Where("conversation_id = ?", conversationID).
		Update("updated_at", time.Now().UTC()).Error
}

func (r *Repo) ListConversations(ctx context.Context, ownerID *uint64) ([]Conversation, error) {
	var out []Conversation
	q := r.db.WithContext(ctx).Model(&Conversation{})
	err := ownerScope(q, ownerID).
		Order("updated_at DESC").
		Limit(50).
		Find(&out).Error
	return out, err
}

func (r *Repo) DeleteConversation(ctx context.Context, conversationID string, ownerID *uint64) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("conversation_id = ?", conversationID)
		res := ownerScope(q, ownerID).Delete(&Conversation{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Where("conversation_id = ?", conversationID).Delete(&Message{}).Error
	})
	return deleted, err
}

// ClearConversations removes every conversation and message of one owner.
func (r *Repo) ClearConversations(ctx context.Context, ownerID *uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		q := tx.Model(&Conversation{})
		if err := ownerScope(q, ownerID).Pluck("conversation_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("conversation_id IN ?", ids).Delete(&Message{}).Error; err != nil {
			return err
		}
		return ownerScope(tx, ownerID).Delete(&Conversation{}).Error
	})
}

func (r *Repo) AppendMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repo) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var out []Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// RecentMessages returns the newest n messages in chronological order.
func (r *Repo) RecentMessages(ctx context.Context, conversationID string, n int) ([]Message, error) {
	var out []Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *Repo) MessageCounts(ctx context.Context, conversationIDs []string) (map[string]int64, error) {
	type row struct {
		ConversationID string
		N              int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Message{}).
		Select("conversation_id, COUNT(*) AS n").
		Where("conversation_id IN ?", conversationIDs).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ConversationID] = r.N
	}
	return out, nil
}
