package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
	"github.com/loggpt/components-room/internal/models"
)

// Service answers the aggregate queries behind the dashboards. It reads the
// tables directly; overdue counts go by due date so a stale status never
// hides a late loan.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type TopComponent struct {
	ComponentName string `json:"component_name"`
	Count         int64  `json:"count"`
}

type AdminStats struct {
	TotalComponents    int64                     `json:"total_components"`
	LowStock           int64                     `json:"low_stock"`
	ActiveTransactions int64                     `json:"active_transactions"`
	PendingRequests    int64                     `json:"pending_requests"`
	OverdueCount       int64                     `json:"overdue_count"`
	TotalUsers         int64                     `json:"total_users"`
	RecentTransactions int64                     `json:"recent_transactions"`
	TopComponents      []TopComponent            `json:"top_components"`
	Categories         []inventory.CategoryCount `json:"categories"`
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	now := time.Now().UTC()
	out := &AdminStats{}

	if err := db.Model(&inventory.Component{}).Count(&out.TotalComponents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&inventory.Component{}).
		Where("available_quantity < total_quantity * 0.2").
		Count(&out.LowStock).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("status IN ?", []string{lending.StatusPending, lending.StatusIssued}).
		Count(&out.ActiveTransactions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("status = ?", lending.StatusPending).
		Count(&out.PendingRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("status IN ? AND due_date < ?", []string{lending.StatusIssued, lending.StatusOverdue}, now).
		Count(&out.OverdueCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("created_at > ?", now.AddDate(0, 0, -7)).
		Count(&out.RecentTransactions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Select("component_name, SUM(quantity) AS count").
		Where("status IN ?", []string{lending.StatusIssued, lending.StatusReturned}).
		Group("component_name").
		Order("count DESC").
		Limit(5).
		Scan(&out.TopComponents).Error; err != nil {
		return nil, err
	}

	counts, err := inventory.NewRepo(s.db).CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	out.Categories = counts
	return out, nil
}

type RecentTransaction struct {
	ID            uint64     `json:"id"`
	ComponentName string     `json:"component_name"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	Date          *time.Time `json:"date,omitempty"`
}

type StudentStats struct {
	ActiveIssues        int64               `json:"active_issues"`
	PendingRequests     int64               `json:"pending_requests"`
	OverdueCount        int64               `json:"overdue_count"`
	TotalReturns        int64               `json:"total_returns"`
	RecentTransactions  []RecentTransaction `json:"recent_transactions"`
	AvailableComponents int64               `json:"available_components"`
}

func (s *Service) StudentStats(ctx context.Context, userID uint64) (*StudentStats, error) {
	db := s.db.WithContext(ctx)
	now := time.Now().UTC()
	out := &StudentStats{}

	mine := func() *gorm.DB {
		return db.Model(&lending.Transaction{}).Where("user_id = ?", userID)
	}

	if err := mine().Where("status IN ?", []string{lending.StatusIssued, lending.StatusApproved}).
		Count(&out.ActiveIssues).Error; err != nil {
		return nil, err
	}
	if err := mine().Where("status = ?", lending.StatusPending).
		Count(&out.PendingRequests).Error; err != nil {
		return nil, err
	}
	if err := mine().Where("status IN ? AND due_date < ?", []string{lending.StatusIssued, lending.StatusOverdue}, now).
		Count(&out.OverdueCount).Error; err != nil {
		return nil, err
	}
	if err := mine().Where("status = ?", lending.StatusReturned).
		Count(&out.TotalReturns).Error; err != nil {
		return nil, err
	}

	var recent []lending.Transaction
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	out.RecentTransactions = make([]RecentTransaction, 0, len(recent))
	for _, t := range recent {
		date := t.IssueDate
		if date == nil {
			created := t.CreatedAt
			date = &created
		}
		out.RecentTransactions = append(out.RecentTransactions, RecentTransaction{
			ID:            t.ID,
			ComponentName: t.ComponentName,
			Quantity:      t.Quantity,
			Status:        t.Status,
			Date:          date,
		})
	}

	if err := db.Model(&inventory.Component{}).
		Where("available_quantity > 0").
		Count(&out.AvailableComponents).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type ActivityEntry struct {
	ID            uint64    `json:"id"`
	Action        string    `json:"action"`
	ComponentName string    `json:"component_name"`
	UserName      string    `json:"user_name"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	Time          time.Time `json:"time"`
}

var activityActions = map[string]string{
	lending.StatusPending:  "requested",
	lending.StatusApproved: "approved for",
	lending.StatusIssued:   "issued",
	lending.StatusReturned: "returned",
	lending.StatusOverdue:  "overdue on",
	lending.StatusRejected: "rejected for",
}

func (s *Service) RecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	var txs []lending.Transaction
	if err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(20).
		Find(&txs).Error; err != nil {
		return nil, err
	}

	out := make([]ActivityEntry, 0, len(txs))
	for _, t := range txs {
		action := activityActions[t.Status]
		if action == "" {
			action = t.Status
		}
		out = append(out, ActivityEntry{
			ID:            t.ID,
			Action:        action,
			ComponentName: t.ComponentName,
			UserName:      t.UserName,
			Quantity:      t.Quantity,
			Status:        t.Status,
			Time:          t.UpdatedAt,
		})
	}
	return out, nil
}

type UserRow struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Department   *string   `json:"department,omitempty"`
	StudentID    *string   `json:"student_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	ActiveIssues int64     `json:"active_issues"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Service) Users(ctx context.Context) ([]UserRow, error) {
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	type issueCount struct {
		UserID uint64
		N      int64
	}
	var counts []issueCount
	if err := db.Model(&lending.Transaction{}).
		Select("user_id, COUNT(*) AS n").
		Where("user_id IS NOT NULL AND status IN ?", []string{lending.StatusIssued, lending.StatusOverdue}).
		Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uint64]int64, len(counts))
	for _, c := range counts {
		byUser[c.UserID] = c.N
	}

	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		out = append(out, UserRow{
			ID:           u.ID,
			Email:        u.Email,
			Name:         u.Name,
			Role:         u.Role,
			Department:   u.Department,
			StudentID:    u.StudentID,
			IsActive:     u.IsActive,
			ActiveIssues: byUser[u.ID],
			CreatedAt:    u.CreatedAt,
		})
	}
	return out, nil
}

type KioskActivity struct {
	Type          string    `json:"type"`
	ComponentName string    `json:"component"`
	StudentName   string    `json:"student"`
	RollNumber    string    `json:"roll_number"`
	Time          time.Time `json:"time"`
}

type KioskStats struct {
	TotalComponents     int64           `json:"total_components"`
	AvailableComponents int64           `json:"available_components"`
	ActiveBorrows       int64           `json:"active_borrows"`
	OverdueItems        int64           `json:"overdue_items"`
	RecentActivity      []KioskActivity `json:"recent_activity"`
}

func (s *Service) KioskStats(ctx context.Context) (*KioskStats, error) {
	db := s.db.WithContext(ctx)
	now := time.Now().UTC()
	out := &KioskStats{}

	if err := db.Model(&inventory.Component{}).Count(&out.TotalComponents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&inventory.Component{}).
		Where("available_quantity > 0").
		Count(&out.AvailableComponents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("status = ?", lending.StatusIssued).
		Count(&out.ActiveBorrows).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lending.Transaction{}).
		Where("status IN ? AND due_date < ?", []string{lending.StatusIssued, lending.StatusOverdue}, now).
		Count(&out.OverdueItems).Error; err != nil {
		return nil, err
	}

	var txs []lending.Transaction
	if err := db.Order("updated_at DESC").Limit(10).Find(&txs).Error; err != nil {
		return nil, err
	}
	out.RecentActivity = make([]KioskActivity, 0, len(txs))
	for _, t := range txs {
		kind := "borrow"
		when := t.UpdatedAt
		if t.Status == lending.StatusReturned {
			kind = "return"
			if t.ReturnDate != nil {
				when = *t.ReturnDate
			}
		} else if t.IssueDate != nil {
			when = *t.IssueDate
		}
		out.RecentActivity = append(out.RecentActivity, KioskActivity{
			Type:          kind,
			ComponentName: t.ComponentName,
			StudentName:   t.UserName,
			RollNumber:    t.RollNumber,
			Time:          when,
		})
	}
	return out, nil
}
