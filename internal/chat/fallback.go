package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var wordRe = regexp.MustCompile(`\b\w{3,}\b`)

var stopWords = map[string]struct{}{
	"the": {}, "what": {}, "where": {}, "which": {}, "who": {}, "has": {},
	"have": {}, "are": {}, "is": {}, "can": {}, "how": {}, "many": {},
	"much": {}, "show": {}, "find": {}, "get": {}, "available": {},
	"stock": {}, "location": {}, "located": {}, "currently": {},
}

func searchTerms(query string, intent Intent) []string {
	if len(intent.Components) > 0 {
		return intent.Components
	}
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(query), -1) {
		if _, skip := stopWords[w]; !skip {
			out = append(out, w)
		}
	}
	return out
}

// Fallback answers from the snapshot alone. It is the response of record
// whenever no LLM provider is configured or the provider call fails, so it
// must never contradict the data: an out-of-stock component is reported as
// out of stock, full stop.
func Fallback(query string, intent Intent, snap *Snapshot) string {
	q := strings.ToLower(query)
	terms := searchTerms(query, intent)

	var matchingComponents []ComponentInfo
	for _, c := range snap.Inventory.Components {
		if c.matches(terms) {
			matchingComponents = append(matchingComponents, c)
		}
	}

	var matchingLoans []LoanInfo
	for _, loan := range snap.Transactions.Active {
		name := strings.ToLower(loan.ComponentName)
		for _, t := range terms {
			if strings.Contains(name, t) {
				matchingLoans = append(matchingLoans, loan)
				break
			}
		}
	}

	switch {
	case intent.Type == IntentLocation || strings.Contains(q, "where"):
		return locationAnswer(terms, matchingComponents, matchingLoans)
	case intent.Type == IntentWhoHas || (strings.Contains(q, "who") && strings.Contains(q, "has")):
		return whoHasAnswer(terms, matchingLoans, snap)
	case intent.Type == IntentAvailability || strings.Contains(q, "available"):
		return availabilityAnswer(matchingComponents, snap)
	case intent.Type == IntentOverdue || strings.Contains(q, "overdue"):
		return overdueAnswer(snap)
	case intent.Type == IntentListAll || strings.Contains(q, "all") || strings.Contains(q, "list"):
		return listAllAnswer(snap)
	}

	if len(matchingComponents) > 0 || len(matchingLoans) > 0 {
		var b strings.Builder
		if len(matchingComponents) > 0 {
			b.WriteString("**Found in Inventory:**\n\n")
			for _, c := range matchingComponents {
				status := fmt.Sprintf("%d/%d available", c.Available, c.Total)
				if c.Available == 0 {
					status = "Out of stock"
				}
				fmt.Fprintf(&b, "**%s** - %s\n  Location: %s\n\n", c.Name, status, c.Location)
			}
		}
		if len(matchingLoans) > 0 {
			b.WriteString("**Active Borrows:**\n")
			for _, loan := range matchingLoans {
				fmt.Fprintf(&b, "  - %s -> %s\n", loan.ComponentName, loan.StudentName)
			}
		}
		return b.String()
	}

	return helpAnswer(snap)
}

func locationAnswer(terms []string, comps []ComponentInfo, loans []LoanInfo) string {
	if len(comps) == 0 {
		return fmt.Sprintf("I couldn't find any component matching '%s' in the inventory.\n\nTry searching for: Arduino, ESP32, sensors, LED, etc.",
			strings.Join(terms, " "))
	}
	var b strings.Builder
	b.WriteString("**Component Location(s):**\n\n")
	for _, c := range comps {
		status := fmt.Sprintf("%d/%d available", c.Available, c.Total)
		if c.Available == 0 {
			status = "Out of stock"
		}
		fmt.Fprintf(&b, "**%s**\n  - Location: %s\n  - Status: %s\n\n", c.Name, c.Location, status)
	}
	if len(loans) > 0 {
		b.WriteString("**Currently borrowed by:**\n")
		for _, loan := range loans {
			fmt.Fprintf(&b, "  - %s (%s): %dx\n", loan.StudentName, loan.StudentRoll, loan.Quantity)
		}
	}
	return b.String()
}

func whoHasAnswer(terms []string, loans []LoanInfo, snap *Snapshot) string {
	if len(loans) > 0 {
		var b strings.Builder
		b.WriteString("**Currently Borrowed:**\n\n")
		for _, loan := range loans {
			overdue := ""
			if loan.IsOverdue {
				overdue = " (OVERDUE)"
			}
			fmt.Fprintf(&b, "**%s** x%d\n  - Student: %s\n  - Roll: %s\n  - Due: %s%s\n\n",
				loan.ComponentName, loan.Quantity, loan.StudentName, loan.StudentRoll, loan.DueDate, overdue)
		}
		return b.String()
	}
	if len(terms) > 0 {
		return fmt.Sprintf("No one currently has '%s' borrowed. It should be available in the inventory.",
			strings.Join(terms, " "))
	}
	if len(snap.Transactions.ByStudent) > 0 {
		var b strings.Builder
		b.WriteString("**Who Has What:**\n\n")
		students := make([]string, 0, len(snap.Transactions.ByStudent))
		for name := range snap.Transactions.ByStudent {
			students = append(students, name)
		}
		sort.Strings(students)
		if len(students) > 10 {
			students = students[:10]
		}
		for _, name := range students {
			data := snap.Transactions.ByStudent[name]
			fmt.Fprintf(&b, "**%s** (Roll: %s):\n", name, data.Roll)
			for _, item := range data.Items {
				fmt.Fprintf(&b, "  - %s x%d\n", item.ComponentName, item.Quantity)
			}
			b.WriteString("\n")
		}
		return b.String()
	}
	return "No components are currently borrowed."
}

func availabilityAnswer(comps []ComponentInfo, snap *Snapshot) string {
	if len(comps) > 0 {
		var b strings.Builder
		b.WriteString("**Availability:**\n\n")
		for _, c := range comps {
			if c.Available > 0 {
				fmt.Fprintf(&b, "**%s**: %d/%d available\n   Location: %s\n\n",
					c.Name, c.Available, c.Total, c.Location)
				continue
			}
			fmt.Fprintf(&b, "**%s**: Out of stock (0/%d)\n", c.Name, c.Total)
			for _, loan := range snap.Transactions.Active {
				if strings.EqualFold(loan.ComponentName, c.Name) {
					fmt.Fprintf(&b, "   -> Borrowed by: %s\n", loan.StudentName)
				}
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString("**Inventory Overview:**\n\n")
	fmt.Fprintf(&b, "Total component types: %d\n", snap.Inventory.TotalTypes)
	fmt.Fprintf(&b, "Available items: %d/%d\n\n", snap.Inventory.TotalAvailable, snap.Inventory.TotalItems)
	if len(snap.Inventory.OutOfStock) > 0 {
		b.WriteString("**Out of Stock:**\n")
		for i, c := range snap.Inventory.OutOfStock {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "  - %s\n", c.Name)
		}
		b.WriteString("\n")
	}
	if len(snap.Inventory.LowStock) > 0 {
		b.WriteString("**Low Stock:**\n")
		for i, c := range snap.Inventory.LowStock {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "  - %s: %d left\n", c.Name, c.Available)
		}
	}
	return b.String()
}

func overdueAnswer(snap *Snapshot) string {
	overdue := snap.Transactions.Overdue
	if len(overdue) == 0 {
		return "**Great news!** There are no overdue items at the moment."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Overdue Items (%d):**\n\n", len(overdue))
	for _, item := range overdue {
		fmt.Fprintf(&b, "**%s** x%d\n  - Student: %s (%s)\n  - Due: %s (%d days overdue)\n\n",
			item.ComponentName, item.Quantity, item.StudentName, item.StudentRoll, item.DueDate, item.DaysOverdue)
	}
	return b.String()
}

func listAllAnswer(snap *Snapshot) string {
	var b strings.Builder
	b.WriteString("**Inventory Summary:**\n\n")
	fmt.Fprintf(&b, "Total types: %d\n", snap.Inventory.TotalTypes)
	fmt.Fprintf(&b, "Total items: %d\n", snap.Inventory.TotalItems)
	fmt.Fprintf(&b, "Available: %d\n\n", snap.Inventory.TotalAvailable)

	cats := make([]string, 0, len(snap.Inventory.ByCategory))
	for cat := range snap.Inventory.ByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		items := snap.Inventory.ByCategory[cat]
		fmt.Fprintf(&b, "**%s:**\n", strings.ToUpper(cat))
		for i, item := range items {
			if i == 5 {
				break
			}
			status := fmt.Sprintf("%d/%d", item.Available, item.Total)
			if item.Available == 0 {
				status = "OUT"
			}
			fmt.Fprintf(&b, "  - %s: %s\n", item.Name, status)
		}
		if len(items) > 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(items)-5)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func helpAnswer(snap *Snapshot) string {
	return fmt.Sprintf(`**How can I help you?**

I have access to the components room inventory. Here's what I can tell you:

**Quick Stats:**
- %d component types
- %d items currently borrowed
- %d overdue items

**Try asking:**
- "Where is the Arduino?"
- "Who has the ESP32?"
- "What sensors are available?"
- "Show all overdue items"
- "List all components"

Just ask me about any component and I'll give you accurate information!`,
		snap.Stats.TotalComponentTypes, snap.Stats.ActiveBorrows, snap.Stats.OverdueCount)
}
