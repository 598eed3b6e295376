package chat

import (
	"strings"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	uno := ComponentInfo{
		ID: 1, Name: "Arduino Uno", Category: "microcontroller",
		Total: 10, Available: 5, Issued: 5, Location: "Shelf A-2",
	}
	esp := ComponentInfo{
		ID: 2, Name: "ESP32 DevKit", Category: "microcontroller",
		Total: 4, Available: 0, Issued: 4, Location: "Drawer B-1",
	}
	dht := ComponentInfo{
		ID: 3, Name: "DHT22", Category: "sensor",
		Total: 8, Available: 2, Issued: 6, Location: "Bin C-3",
		Description: "temperature and humidity sensor",
	}

	espLoan := LoanInfo{
		ID: 1, ComponentID: 2, ComponentName: "ESP32 DevKit", Quantity: 4,
		StudentName: "Priya S", StudentRoll: "21CS001", Status: "issued",
		DueDate: "2026-01-10", IsOverdue: true, DaysOverdue: 3,
	}

	return &Snapshot{
		TakenAt: time.Now().UTC(),
		Inventory: InventoryView{
			Components: []ComponentInfo{uno, esp, dht},
			ByCategory: map[string][]ComponentInfo{
				"microcontroller": {uno, esp},
				"sensor":          {dht},
			},
			LowStock:       []ComponentInfo{dht},
			OutOfStock:     []ComponentInfo{esp},
			TotalTypes:     3,
			TotalItems:     22,
			TotalAvailable: 7,
		},
		Transactions: TransactionView{
			Active:  []LoanInfo{espLoan},
			Overdue: []LoanInfo{espLoan},
			ByStudent: map[string]*StudentLoans{
				"Priya S": {Roll: "21CS001", Items: []LoanInfo{espLoan}},
			},
			ByComponent:  map[string][]LoanInfo{"ESP32 DevKit": {espLoan}},
			TotalActive:  1,
			TotalOverdue: 1,
		},
		Stats: StatsView{
			TotalComponentTypes: 3,
			ActiveBorrows:       1,
			OverdueCount:        1,
		},
	}
}

func TestFallbackNeverClaimsOutOfStockAvailable(t *testing.T) {
	snap := testSnapshot()
	query := "how many esp32 are available?"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "Out of stock (0/4)") {
		t.Fatalf("out-of-stock component not flagged:\n%s", answer)
	}
	if strings.Contains(answer, "ESP32 DevKit**: 0/4 available") {
		t.Fatalf("out-of-stock component reported as available:\n%s", answer)
	}
	if !strings.Contains(answer, "Priya S") {
		t.Fatalf("borrower not named for out-of-stock component:\n%s", answer)
	}
}

func TestFallbackLocation(t *testing.T) {
	snap := testSnapshot()
	query := "where is the arduino"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "Arduino Uno") || !strings.Contains(answer, "Shelf A-2") {
		t.Fatalf("location answer incomplete:\n%s", answer)
	}
}

func TestFallbackLocationUnknownComponent(t *testing.T) {
	snap := testSnapshot()
	query := "where is the flux capacitor"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "couldn't find") {
		t.Fatalf("unknown component not reported:\n%s", answer)
	}
}

func TestFallbackWhoHas(t *testing.T) {
	snap := testSnapshot()
	query := "who has the esp32"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "Priya S") || !strings.Contains(answer, "21CS001") {
		t.Fatalf("borrower missing:\n%s", answer)
	}
	if !strings.Contains(answer, "OVERDUE") {
		t.Fatalf("overdue flag missing:\n%s", answer)
	}
}

func TestFallbackWhoHasNobody(t *testing.T) {
	snap := testSnapshot()
	query := "who borrowed the arduino"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "No one currently has") {
		t.Fatalf("expected no-borrower answer:\n%s", answer)
	}
}

func TestFallbackOverdue(t *testing.T) {
	snap := testSnapshot()
	query := "show overdue"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "3 days overdue") {
		t.Fatalf("overdue days missing:\n%s", answer)
	}

	snap.Transactions.Overdue = nil
	answer = Fallback(query, ClassifyIntent(query), snap)
	if !strings.Contains(answer, "no overdue items") {
		t.Fatalf("expected empty-overdue answer:\n%s", answer)
	}
}

func TestFallbackGeneralHelp(t *testing.T) {
	snap := testSnapshot()
	query := "hmm"
	answer := Fallback(query, ClassifyIntent(query), snap)

	if !strings.Contains(answer, "How can I help you?") {
		t.Fatalf("expected help answer:\n%s", answer)
	}
	if !strings.Contains(answer, "3 component types") {
		t.Fatalf("stats missing:\n%s", answer)
	}
}

func TestSuggestionsPerIntent(t *testing.T) {
	snap := testSnapshot()

	for _, intentType := range []string{IntentLocation, IntentWhoHas, IntentAvailability, IntentOverdue, IntentGeneral} {
		got := Suggestions(Intent{Type: intentType}, snap)
		if len(got) == 0 || len(got) > maxSuggestions {
			t.Errorf("Suggestions(%s) = %d entries", intentType, len(got))
		}
	}

	// Default set references the first out-of-stock component.
	got := Suggestions(Intent{Type: IntentGeneral}, snap)
	found := false
	for _, s := range got {
		if strings.Contains(s, "ESP32 DevKit") {
			found = true
		}
	}
	if !found {
		t.Errorf("default suggestions missing out-of-stock prompt: %v", got)
	}
}
