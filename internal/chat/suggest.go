package chat

import "fmt"

const maxSuggestions = 4

// Suggestions proposes follow-up queries matching what the user just asked.
func Suggestions(intent Intent, snap *Snapshot) []string {
	var out []string

	switch intent.Type {
	case IntentLocation:
		out = []string{
			"What's available right now?",
			"Who has borrowed this?",
			"Show all components",
		}
	case IntentWhoHas:
		out = []string{
			"Show all overdue items",
			"What's the availability?",
			"List all active borrows",
		}
	case IntentAvailability:
		out = []string{
			"Where can I find this?",
			"What's out of stock?",
			"Show low stock items",
		}
	case IntentOverdue:
		out = []string{
			"Who has what?",
			"Show all active borrows",
			"List available components",
		}
	default:
		out = []string{"What's available?", "Show overdue items", "List all components"}
		if len(snap.Inventory.OutOfStock) > 0 {
			out = append(out, fmt.Sprintf("What about %s?", snap.Inventory.OutOfStock[0].Name))
		}
		if len(snap.Transactions.Active) > 0 {
			out = append(out, "Who has borrowed components?")
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
