package chat

import "testing"

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		query      string
		wantType   string
		components []string
	}{
		{"where is the arduino?", IntentLocation, []string{"arduino"}},
		{"Who has the ESP32?", IntentWhoHas, []string{"esp32"}},
		{"how many servo motors are left", IntentAvailability, []string{"motor", "servo"}},
		{"show all overdue items", IntentOverdue, nil},
		{"list all components", IntentListAll, nil},
		{"can I borrow a breadboard", IntentBorrowHelp, []string{"breadboard"}},
		{"how do I give back the sensor", IntentReturnHelp, []string{"sensor"}},
		{"hello there", IntentGeneral, nil},
	}

	for _, tc := range cases {
		got := ClassifyIntent(tc.query)
		if got.Type != tc.wantType {
			t.Errorf("ClassifyIntent(%q).Type = %q, want %q", tc.query, got.Type, tc.wantType)
		}
		for _, want := range tc.components {
			found := false
			for _, c := range got.Components {
				if c == want {
					found = true
				}
			}
			if !found {
				t.Errorf("ClassifyIntent(%q) missing component %q (got %v)", tc.query, want, got.Components)
			}
		}
	}
}

func TestClassifyIntentPriority(t *testing.T) {
	// "where" outranks "available" when both appear.
	got := ClassifyIntent("where are the available sensors located")
	if got.Type != IntentLocation {
		t.Fatalf("type = %q, want location", got.Type)
	}
}
