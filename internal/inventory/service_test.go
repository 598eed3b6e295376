package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGuard struct {
	active bool
}

func (g *stubGuard) HasActiveLoans(ctx context.Context, componentID uint64) (bool, error) {
	return g.active, nil
}

var testDBSeq int

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:inventory_test_%d?mode=memory&cache=shared", testDBSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&Component{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestCreateValidation(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(NewRepo(gdb), &stubGuard{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "X", Category: "gadget", TotalQuantity: 1, AvailableQuantity: 1}, 1)
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}

	_, err = svc.Create(ctx, CreateInput{Name: "X", Category: CategorySensor, TotalQuantity: 2, AvailableQuantity: 3}, 1)
	if !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("err = %v, want ErrQuantityRange", err)
	}

	_, err = svc.Create(ctx, CreateInput{Name: "X", Category: CategorySensor, TotalQuantity: -1, AvailableQuantity: 0}, 1)
	if !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("negative total err = %v, want ErrQuantityRange", err)
	}
}

func TestCreateNormalizesTagsAndStatus(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(NewRepo(gdb), &stubGuard{})
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateInput{
		Name:              "DHT22",
		Category:          CategorySensor,
		TotalQuantity:     10,
		AvailableQuantity: 10,
		Tags:              []string{" Temperature ", "HUMIDITY", ""},
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(c.Tags) != 2 || c.Tags[0] != "temperature" || c.Tags[1] != "humidity" {
		t.Fatalf("tags = %v", c.Tags)
	}
	if c.Status != StatusAvailable {
		t.Fatalf("status = %q, want available", c.Status)
	}

	empty, err := svc.Create(ctx, CreateInput{
		Name: "BMP280", Category: CategorySensor, TotalQuantity: 3, AvailableQuantity: 0,
	}, 1)
	if err != nil {
		t.Fatalf("create empty: %v", err)
	}
	if empty.Status != StatusIssued {
		t.Fatalf("status = %q, want issued when nothing available", empty.Status)
	}
}

func TestUpdateEnforcesInvariant(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(NewRepo(gdb), &stubGuard{})
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateInput{
		Name: "Relay Board", Category: CategoryActuator, TotalQuantity: 5, AvailableQuantity: 5,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := 9
	if _, err := svc.Update(ctx, c.ID, UpdateInput{AvailableQuantity: &bad}); !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("err = %v, want ErrQuantityRange", err)
	}

	// Raising total first makes the same available count legal.
	total, avail := 10, 9
	got, err := svc.Update(ctx, c.ID, UpdateInput{TotalQuantity: &total, AvailableQuantity: &avail})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TotalQuantity != 10 || got.AvailableQuantity != 9 {
		t.Fatalf("quantities = %d/%d", got.AvailableQuantity, got.TotalQuantity)
	}

	badStatus := "broken"
	if _, err := svc.Update(ctx, c.ID, UpdateInput{Status: &badStatus}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestDeleteBlockedByActiveLoans(t *testing.T) {
	gdb := openTestDB(t)
	guard := &stubGuard{active: true}
	svc := NewService(NewRepo(gdb), guard)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateInput{
		Name: "ESP8266", Category: CategoryMicrocontroller, TotalQuantity: 4, AvailableQuantity: 4,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, c.ID); !errors.Is(err, ErrHasActiveLoans) {
		t.Fatalf("err = %v, want ErrHasActiveLoans", err)
	}

	guard.active = false
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("component still present: %v", err)
	}
}

func TestListSearchAndCategoryCounts(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(NewRepo(gdb), &stubGuard{})
	ctx := context.Background()

	seed := []CreateInput{
		{Name: "Arduino Uno", Category: CategoryMicrocontroller, TotalQuantity: 5, AvailableQuantity: 5, Tags: []string{"avr"}},
		{Name: "Arduino Nano", Category: CategoryMicrocontroller, TotalQuantity: 3, AvailableQuantity: 0, Tags: []string{"avr"}},
		{Name: "HC-SR04", Category: CategorySensor, TotalQuantity: 8, AvailableQuantity: 8, Description: "ultrasonic distance sensor"},
	}
	for _, in := range seed {
		if _, err := svc.Create(ctx, in, 1); err != nil {
			t.Fatalf("seed %q: %v", in.Name, err)
		}
	}

	got, total, err := svc.List(ctx, ListFilter{Search: "arduino"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("search arduino = %d/%d, want 2", total, len(got))
	}

	got, total, err = svc.List(ctx, ListFilter{Search: "ultrasonic"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || got[0].Name != "HC-SR04" {
		t.Fatalf("description search = %v", got)
	}

	got, _, err = svc.List(ctx, ListFilter{Search: "AVR"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tag search = %d rows, want 2", len(got))
	}

	got, _, err = svc.List(ctx, ListFilter{InStock: true, Category: CategoryMicrocontroller})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Arduino Uno" {
		t.Fatalf("in-stock filter = %v", got)
	}

	counts, err := svc.CategoryCounts(ctx)
	if err != nil {
		t.Fatalf("category counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("counts = %v", counts)
	}
	for _, cc := range counts {
		switch cc.Category {
		case CategoryMicrocontroller:
			if cc.Count != 2 {
				t.Fatalf("microcontroller count = %d", cc.Count)
			}
		case CategorySensor:
			if cc.Count != 1 {
				t.Fatalf("sensor count = %d", cc.Count)
			}
		default:
			t.Fatalf("unexpected category %q", cc.Category)
		}
	}
}
