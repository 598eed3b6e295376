package lending

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/inventory"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

type Filter struct {
	UserID      *uint64
	ComponentID uint64
	Status      string
	OverdueOnly bool
	Page        int
	PageSize    int
	OrderExpr   string // defaults to created_at DESC
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&Transaction{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ComponentID != 0 {
		q = q.Where("component_id = ?", f.ComponentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OverdueOnly {
		q = q.Where("status = ? AND due_date < ?", StatusIssued, time.Now().UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.OrderExpr
	if order == "" {
		order = "created_at DESC"
	}
	q = q.Order(order)

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var out []Transaction
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Transaction, error) {
	var t Transaction
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// HasActiveLoans satisfies inventory.LoanGuard.
func (r *Repo) HasActiveLoans(ctx context.Context, componentID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("component_id = ? AND status IN ?", componentID, ActiveStatuses).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListIssuedByRoll(ctx context.Context, rollNumber string) ([]Transaction, error) {
	var out []Transaction
	err := r.db.WithContext(ctx).
		Where("roll_number = ? AND status = ?", rollNumber, StatusIssued).
		Order("issue_date DESC").
		Find(&out).Error
	return out, err
}

func (r *Repo) LatestByRoll(ctx context.Context, rollNumber string) (*Transaction, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Where("roll_number = ?", rollNumber).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SweepOverdue rewrites issued rows whose due date has passed to overdue and
// returns how many changed.
func (r *Repo) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", StatusIssued, now).
		Update("status", StatusOverdue)
	return res.RowsAffected, res.Error
}

// reserveStock is the atomic conditional decrement that closes the
// check-then-write race: zero rows affected means not enough stock (or the
// component vanished) and the surrounding transaction rolls back.
func reserveStock(tx *gorm.DB, componentID uint64, qty int) (bool, error) {
	res := tx.Model(&inventory.Component{}).
		Where("id = ? AND available_quantity >= ?", componentID, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func releaseStock(tx *gorm.DB, componentID uint64, qty int) error {
	return tx.Model(&inventory.Component{}).
		Where("id = ?", componentID).
		Update("available_quantity", gorm.Expr("available_quantity + ?", qty)).Error
}
