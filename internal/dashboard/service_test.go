package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
	"github.com/loggpt/components-room/internal/models"
)

var testDBSeq int

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:dashboard_test_%d?mode=memory&cache=shared", testDBSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &inventory.Component{}, &lending.Transaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seed(t *testing.T, gdb *gorm.DB) (student *models.User) {
	t.Helper()

	student = &models.User{Email: "s@example.com", Name: "Student", Role: models.RoleStudent, PasswordHash: "x", IsActive: true}
	admin := &models.User{Email: "a@example.com", Name: "Admin", Role: models.RoleAdmin, PasswordHash: "x", IsActive: true}
	for _, u := range []*models.User{student, admin} {
		if err := gdb.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	comps := []*inventory.Component{
		{Name: "Arduino Uno", Category: inventory.CategoryMicrocontroller, TotalQuantity: 10, AvailableQuantity: 1, Status: inventory.StatusAvailable},
		{Name: "HC-SR04", Category: inventory.CategorySensor, TotalQuantity: 5, AvailableQuantity: 5, Status: inventory.StatusAvailable},
		{Name: "OLED", Category: inventory.CategoryDisplay, TotalQuantity: 3, AvailableQuantity: 0, Status: inventory.StatusIssued},
	}
	for _, c := range comps {
		if err := gdb.Create(c).Error; err != nil {
			t.Fatalf("seed component: %v", err)
		}
	}

	now := time.Now().UTC()
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 5)
	txs := []*lending.Transaction{
		{ComponentID: comps[0].ID, ComponentName: "Arduino Uno", UserID: &student.ID, UserName: "Student", UserEmail: "s@example.com", Quantity: 2, Status: lending.StatusIssued, IssueDate: &past, DueDate: &future},
		{ComponentID: comps[0].ID, ComponentName: "Arduino Uno", UserID: &student.ID, UserName: "Student", UserEmail: "s@example.com", Quantity: 1, Status: lending.StatusReturned, IssueDate: &past, DueDate: &future, ReturnDate: &now},
		{ComponentID: comps[1].ID, ComponentName: "HC-SR04", UserID: &student.ID, UserName: "Student", UserEmail: "s@example.com", Quantity: 1, Status: lending.StatusPending},
		{ComponentID: comps[2].ID, ComponentName: "OLED", RollNumber: "21CS001", UserName: "Priya S", UserEmail: "21cs001@student.local", Quantity: 3, Status: lending.StatusIssued, IssueDate: &past, DueDate: &past},
	}
	for _, tx := range txs {
		if err := gdb.Create(tx).Error; err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
	return student
}

func TestAdminStats(t *testing.T) {
	gdb := openTestDB(t)
	student := seed(t, gdb)
	_ = student
	svc := NewService(gdb)

	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("admin stats: %v", err)
	}
	if stats.TotalComponents != 3 {
		t.Fatalf("total components = %d", stats.TotalComponents)
	}
	// Arduino (1/10) and OLED (0/3) are below 20 percent.
	if stats.LowStock != 2 {
		t.Fatalf("low stock = %d", stats.LowStock)
	}
	if stats.ActiveTransactions != 3 {
		t.Fatalf("active = %d", stats.ActiveTransactions)
	}
	if stats.PendingRequests != 1 {
		t.Fatalf("pending = %d", stats.PendingRequests)
	}
	if stats.OverdueCount != 1 {
		t.Fatalf("overdue = %d", stats.OverdueCount)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("users = %d", stats.TotalUsers)
	}
	if len(stats.TopComponents) == 0 || stats.TopComponents[0].ComponentName == "" {
		t.Fatalf("top components = %v", stats.TopComponents)
	}
	if len(stats.Categories) != 3 {
		t.Fatalf("categories = %v", stats.Categories)
	}
}

func TestStudentStats(t *testing.T) {
	gdb := openTestDB(t)
	student := seed(t, gdb)
	svc := NewService(gdb)

	stats, err := svc.StudentStats(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("student stats: %v", err)
	}
	if stats.ActiveIssues != 1 {
		t.Fatalf("active issues = %d", stats.ActiveIssues)
	}
	if stats.PendingRequests != 1 {
		t.Fatalf("pending = %d", stats.PendingRequests)
	}
	if stats.TotalReturns != 1 {
		t.Fatalf("returns = %d", stats.TotalReturns)
	}
	if stats.OverdueCount != 0 {
		t.Fatalf("overdue = %d", stats.OverdueCount)
	}
	if len(stats.RecentTransactions) != 3 {
		t.Fatalf("recent = %d", len(stats.RecentTransactions))
	}
	if stats.AvailableComponents != 2 {
		t.Fatalf("available components = %d", stats.AvailableComponents)
	}
}

func TestRecentActivityAndKioskStats(t *testing.T) {
	gdb := openTestDB(t)
	seed(t, gdb)
	svc := NewService(gdb)
	ctx := context.Background()

	activity, err := svc.RecentActivity(ctx)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(activity) != 4 {
		t.Fatalf("activity = %d rows", len(activity))
	}
	for _, a := range activity {
		if a.Action == "" {
			t.Fatalf("empty action for status %q", a.Status)
		}
	}

	kiosk, err := svc.KioskStats(ctx)
	if err != nil {
		t.Fatalf("kiosk stats: %v", err)
	}
	if kiosk.TotalComponents != 3 || kiosk.AvailableComponents != 2 {
		t.Fatalf("components = %d/%d", kiosk.AvailableComponents, kiosk.TotalComponents)
	}
	if kiosk.ActiveBorrows != 2 {
		t.Fatalf("active borrows = %d", kiosk.ActiveBorrows)
	}
	if kiosk.OverdueItems != 1 {
		t.Fatalf("overdue = %d", kiosk.OverdueItems)
	}
	if len(kiosk.RecentActivity) != 4 {
		t.Fatalf("recent activity = %d", len(kiosk.RecentActivity))
	}

	var sawReturn, sawBorrow bool
	for _, a := range kiosk.RecentActivity {
		switch a.Type {
		case "return":
			sawReturn = true
		case "borrow":
			sawBorrow = true
		}
	}
	if !sawReturn || !sawBorrow {
		t.Fatalf("activity types missing: %+v", kiosk.RecentActivity)
	}
}

func TestUsersIncludeActiveIssueCounts(t *testing.T) {
	gdb := openTestDB(t)
	student := seed(t, gdb)
	svc := NewService(gdb)

	rows, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	for _, r := range rows {
		if r.ID == student.ID && r.ActiveIssues != 1 {
			t.Fatalf("student active issues = %d", r.ActiveIssues)
		}
	}
}
