package lending

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/models"
)

var (
	ErrInsufficientStock = errors.New("insufficient component quantity")
	ErrNotPending        = errors.New("only pending transactions can be approved or rejected")
	ErrNotReturnable     = errors.New("only issued or overdue transactions can be returned")
	ErrAlreadyBorrowed   = errors.New("component already borrowed by this roll number")
)

type Service struct {
	db             *gorm.DB
	repo           *Repo
	defaultDueDays int
}

func NewService(db *gorm.DB, repo *Repo, defaultDueDays int) *Service {
	if defaultDueDays <= 0 {
		defaultDueDays = 7
	}
	return &Service{db: db, repo: repo, defaultDueDays: defaultDueDays}
}

type CreateInput struct {
	ComponentID        uint64
	Quantity           int
	Purpose            string
	ExpectedReturnDate *time.Time
}

// Create records a loan request. Stock is not reserved yet; availability is
// re-checked at approval time.
func (s *Service) Create(ctx context.Context, user *models.User, in CreateInput) (*Transaction, error) {
	var c inventory.Component
	if err := s.db.WithContext(ctx).First(&c, in.ComponentID).Error; err != nil {
		return nil, err
	}
	if c.AvailableQuantity < in.Quantity {
		return nil, ErrInsufficientStock
	}

	t := &Transaction{
		ComponentID:        c.ID,
		ComponentName:      c.Name,
		UserID:             &user.ID,
		UserName:           user.Name,
		UserEmail:          user.Email,
		Quantity:           in.Quantity,
		Purpose:            in.Purpose,
		Status:             StatusPending,
		ExpectedReturnDate: in.ExpectedReturnDate,
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// Approve moves pending → issued and reserves stock. The status change and
// the conditional decrement commit or roll back together.
func (s *Service) Approve(ctx context.Context, id uint64, adminID uint64, dueDays int) (*Transaction, error) {
	if dueDays <= 0 {
		dueDays = s.defaultDueDays
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if t.Status != StatusPending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		due := now.AddDate(0, 0, dueDays)
		res := tx.Model(&Transaction{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(map[string]any{
				"status":      StatusIssued,
				"issue_date":  now,
				"due_date":    due,
				"approved_by": adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		ok, err := reserveStock(tx, t.ComponentID, t.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Reject(ctx context.Context, id uint64, reason string) (*Transaction, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if t.Status != StatusPending {
			return ErrNotPending
		}
		return tx.Model(&Transaction{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(map[string]any{
				"status":      StatusRejected,
				"admin_notes": reason,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Return moves issued/overdue → returned and releases the reserved quantity.
func (s *Service) Return(ctx context.Context, id uint64, condition string) (*Transaction, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if t.Status != StatusIssued && t.Status != StatusOverdue {
			return ErrNotReturnable
		}

		now := time.Now().UTC()
		res := tx.Model(&Transaction{}).
			Where("id = ? AND status IN ?", id, []string{StatusIssued, StatusOverdue}).
			Updates(map[string]any{
				"status":           StatusReturned,
				"return_date":      now,
				"return_condition": condition,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotReturnable
		}

		return releaseStock(tx, t.ComponentID, t.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Overdue sweeps issued rows past their due date to overdue, then lists them
// oldest due first. Read paths that cannot afford the write (dashboard, chat
// snapshot) count overdue by due date instead.
func (s *Service) Overdue(ctx context.Context, page, pageSize int) ([]Transaction, int64, error) {
	if _, err := s.repo.SweepOverdue(ctx, time.Now().UTC()); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, Filter{
		Status:    StatusOverdue,
		Page:      page,
		PageSize:  pageSize,
		OrderExpr: "due_date ASC",
	})
}

func (s *Service) List(ctx context.Context, f Filter) ([]Transaction, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint64) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

type KioskBorrowInput struct {
	RollNumber  string
	Name        string
	ComponentID uint64
	Quantity    int
	Purpose     string
}

// KioskBorrow is the walk-up path: no account, no approval step. The borrow
// goes straight to issued with the default due period. A roll number may hold
// at most one outstanding loan per component.
func (s *Service) KioskBorrow(ctx context.Context, in KioskBorrowInput) (*Transaction, error) {
	roll := strings.ToUpper(strings.TrimSpace(in.RollNumber))

	var created *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c inventory.Component
		if err := tx.First(&c, in.ComponentID).Error; err != nil {
			return err
		}
		if c.AvailableQuantity < in.Quantity {
			return ErrInsufficientStock
		}

		var n int64
		if err := tx.Model(&Transaction{}).
			Where("roll_number = ? AND component_id = ? AND status = ?", roll, c.ID, StatusIssued).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyBorrowed
		}

		now := time.Now().UTC()
		due := now.AddDate(0, 0, s.defaultDueDays)
		t := &Transaction{
			ComponentID:   c.ID,
			ComponentName: c.Name,
			UserName:      strings.TrimSpace(in.Name),
			UserEmail:     strings.ToLower(roll) + "@student.local",
			RollNumber:    roll,
			Quantity:      in.Quantity,
			Purpose:       in.Purpose,
			Status:        StatusIssued,
			IssueDate:     &now,
			DueDate:       &due,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		ok, err := reserveStock(tx, c.ID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// KioskReturn closes an issued transaction by id. Unlike the admin return it
// does not accept overdue rows; the kiosk only lists issued loans.
func (s *Service) KioskReturn(ctx context.Context, transactionID uint64, condition string) (*Transaction, error) {
	if condition == "" {
		condition = "good"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		if err := tx.First(&t, transactionID).Error; err != nil {
			return err
		}
		if t.Status != StatusIssued {
			return ErrNotReturnable
		}

		now := time.Now().UTC()
		res := tx.Model(&Transaction{}).
			Where("id = ? AND status = ?", transactionID, StatusIssued).
			Updates(map[string]any{
				"status":           StatusReturned,
				"return_date":      now,
				"return_condition": condition,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotReturnable
		}
		return releaseStock(tx, t.ComponentID, t.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, transactionID)
}

type BorrowedItem struct {
	TransactionID uint64     `json:"transaction_id"`
	ComponentID   uint64     `json:"component_id"`
	ComponentName string     `json:"component_name"`
	Quantity      int        `json:"quantity"`
	BorrowedAt    *time.Time `json:"borrowed_at"`
	Location      string     `json:"location,omitempty"`
}

// BorrowedByRoll lists a student's outstanding kiosk loans with the shelf
// location of each component.
func (s *Service) BorrowedByRoll(ctx context.Context, rollNumber string) (string, []BorrowedItem, error) {
	roll := strings.ToUpper(strings.TrimSpace(rollNumber))

	txs, err := s.repo.ListIssuedByRoll(ctx, roll)
	if err != nil {
		return "", nil, err
	}
	if len(txs) == 0 {
		return "", []BorrowedItem{}, nil
	}

	ids := make([]uint64, 0, len(txs))
	for _, t := range txs {
		ids = append(ids, t.ComponentID)
	}
	var comps []inventory.Component
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&comps).Error; err != nil {
		return "", nil, err
	}
	locations := make(map[uint64]string, len(comps))
	for _, c := range comps {
		locations[c.ID] = c.Location
	}

	items := make([]BorrowedItem, 0, len(txs))
	for _, t := range txs {
		items = append(items, BorrowedItem{
			TransactionID: t.ID,
			ComponentID:   t.ComponentID,
			ComponentName: t.ComponentName,
			Quantity:      t.Quantity,
			BorrowedAt:    t.IssueDate,
			Location:      locations[t.ComponentID],
		})
	}
	return txs[0].UserName, items, nil
}

// SearchStudent returns the most recent name recorded for a roll number, or
// found=false when the roll has never transacted.
func (s *Service) SearchStudent(ctx context.Context, rollNumber string) (name string, found bool, err error) {
	roll := strings.ToUpper(strings.TrimSpace(rollNumber))
	t, err := s.repo.LatestByRoll(ctx, roll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return t.UserName, true, nil
}
