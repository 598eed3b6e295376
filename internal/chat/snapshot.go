package chat

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
)

// Snapshot is the point-in-time view of the room the assistant answers from.
// Both the LLM prompt and the rule-based fallback read the same snapshot, so
// the two paths can never disagree about stock.
type Snapshot struct {
	Inventory    InventoryView
	Transactions TransactionView
	Stats        StatsView
	TakenAt      time.Time
}

type ComponentInfo struct {
	ID          uint64
	Name        string
	Category    string
	Total       int
	Available   int
	Issued      int
	Location    string
	Description string
	Tags        []string
}

type InventoryView struct {
	Components     []ComponentInfo
	ByCategory     map[string][]ComponentInfo
	LowStock       []ComponentInfo
	OutOfStock     []ComponentInfo
	TotalTypes     int
	TotalItems     int
	TotalAvailable int
}

type LoanInfo struct {
	ID            uint64
	ComponentID   uint64
	ComponentName string
	Quantity      int
	StudentName   string
	StudentRoll   string
	Status        string
	IssueDate     string
	DueDate       string
	IsOverdue     bool
	DaysOverdue   int
}

type StudentLoans struct {
	Roll  string
	Items []LoanInfo
}

type TransactionView struct {
	Active        []LoanInfo
	Overdue       []LoanInfo
	RecentReturns []LoanInfo
	ByStudent     map[string]*StudentLoans
	ByComponent   map[string][]LoanInfo
	TotalActive   int
	TotalOverdue  int
}

type TopBorrowed struct {
	Name  string
	Count int64
}

type StatsView struct {
	TotalComponentTypes int64
	ActiveBorrows       int64
	OverdueCount        int64
	TopBorrowed         []TopBorrowed
}

const dateLayout = "2006-01-02"

func fmtDate(t *time.Time) string {
	if t == nil {
		return "Not set"
	}
	return t.Format(dateLayout)
}

func loanInfo(t *lending.Transaction, now time.Time) LoanInfo {
	roll := t.RollNumber
	if roll == "" {
		roll = t.UserEmail
	}
	info := LoanInfo{
		ID:            t.ID,
		ComponentID:   t.ComponentID,
		ComponentName: t.ComponentName,
		Quantity:      t.Quantity,
		StudentName:   t.UserName,
		StudentRoll:   roll,
		Status:        t.Status,
		IssueDate:     fmtDate(t.IssueDate),
		DueDate:       fmtDate(t.DueDate),
	}
	if info.IssueDate == "Not set" {
		info.IssueDate = t.CreatedAt.Format(dateLayout)
	}
	if t.DueDate != nil && t.DueDate.Before(now) {
		info.IsOverdue = true
		info.DaysOverdue = int(now.Sub(*t.DueDate).Hours() / 24)
	}
	return info
}

// BuildSnapshot assembles the assistant's context from live tables. Overdue
// is judged by due date, not stored status, so a loan missed by the sweep
// still shows as late.
func BuildSnapshot(ctx context.Context, db *gorm.DB) (*Snapshot, error) {
	now := time.Now().UTC()
	snap := &Snapshot{TakenAt: now}

	var comps []inventory.Component
	if err := db.WithContext(ctx).Order("name ASC").Limit(200).Find(&comps).Error; err != nil {
		return nil, err
	}

	inv := InventoryView{
		ByCategory: make(map[string][]ComponentInfo),
		TotalTypes: len(comps),
	}
	for _, c := range comps {
		info := ComponentInfo{
			ID:          c.ID,
			Name:        c.Name,
			Category:    c.Category,
			Total:       c.TotalQuantity,
			Available:   c.AvailableQuantity,
			Issued:      c.TotalQuantity - c.AvailableQuantity,
			Location:    c.Location,
			Description: c.Description,
			Tags:        c.Tags,
		}
		if info.Location == "" {
			info.Location = "Not specified"
		}
		inv.Components = append(inv.Components, info)
		inv.TotalItems += c.TotalQuantity
		inv.TotalAvailable += c.AvailableQuantity
		inv.ByCategory[c.Category] = append(inv.ByCategory[c.Category], info)
		if c.AvailableQuantity == 0 {
			inv.OutOfStock = append(inv.OutOfStock, info)
		} else if c.AvailableQuantity <= 2 {
			inv.LowStock = append(inv.LowStock, info)
		}
	}
	snap.Inventory = inv

	var active []lending.Transaction
	if err := db.WithContext(ctx).
		Where("status IN ?", []string{lending.StatusIssued, lending.StatusPending}).
		Order("created_at DESC").
		Limit(100).
		Find(&active).Error; err != nil {
		return nil, err
	}

	tv := TransactionView{
		ByStudent:   make(map[string]*StudentLoans),
		ByComponent: make(map[string][]LoanInfo),
		TotalActive: len(active),
	}
	for i := range active {
		info := loanInfo(&active[i], now)
		tv.Active = append(tv.Active, info)

		sl, ok := tv.ByStudent[info.StudentName]
		if !ok {
			sl = &StudentLoans{Roll: info.StudentRoll}
			tv.ByStudent[info.StudentName] = sl
		}
		sl.Items = append(sl.Items, info)
		tv.ByComponent[info.ComponentName] = append(tv.ByComponent[info.ComponentName], info)
	}

	var overdue []lending.Transaction
	if err := db.WithContext(ctx).
		Where("status IN ? AND due_date < ?", []string{lending.StatusIssued, lending.StatusOverdue}, now).
		Order("due_date ASC").
		Limit(50).
		Find(&overdue).Error; err != nil {
		return nil, err
	}
	for i := range overdue {
		tv.Overdue = append(tv.Overdue, loanInfo(&overdue[i], now))
	}
	tv.TotalOverdue = len(tv.Overdue)

	var returns []lending.Transaction
	if err := db.WithContext(ctx).
		Where("status = ? AND return_date >= ?", lending.StatusReturned, now.AddDate(0, 0, -7)).
		Order("return_date DESC").
		Limit(20).
		Find(&returns).Error; err != nil {
		return nil, err
	}
	for i := range returns {
		tv.RecentReturns = append(tv.RecentReturns, loanInfo(&returns[i], now))
	}
	snap.Transactions = tv

	stats := StatsView{TotalComponentTypes: int64(len(comps))}
	if err := db.WithContext(ctx).Model(&lending.Transaction{}).
		Where("status = ?", lending.StatusIssued).
		Count(&stats.ActiveBorrows).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&lending.Transaction{}).
		Where("status IN ? AND due_date < ?", []string{lending.StatusIssued, lending.StatusOverdue}, now).
		Count(&stats.OverdueCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&lending.Transaction{}).
		Select("component_name AS name, SUM(quantity) AS count").
		Where("status = ?", lending.StatusIssued).
		Group("component_name").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopBorrowed).Error; err != nil {
		return nil, err
	}
	snap.Stats = stats

	return snap, nil
}

// matchesComponent reports whether any search term appears in the component
// name or description.
func (c *ComponentInfo) matches(terms []string) bool {
	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)
	for _, t := range terms {
		if strings.Contains(name, t) || strings.Contains(desc, t) {
			return true
		}
	}
	return false
}
