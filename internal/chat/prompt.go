package chat

import (
	"fmt"
	"sort"
	"strings"
)

// BuildSystemPrompt renders the snapshot into the assistant's grounding
// prompt. Everything the model is allowed to state comes from here.
func BuildSystemPrompt(snap *Snapshot, userRole string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are LogGPT, an intelligent assistant for the Hardware & IoT Components Room.\n")
	fmt.Fprintf(&b, "You have REAL-TIME access to the inventory database and can provide ACCURATE information.\n\n")
	fmt.Fprintf(&b, "TODAY'S DATE: %s\n", snap.TakenAt.Format(dateLayout))
	fmt.Fprintf(&b, "USER ROLE: %s\n\n", userRole)

	inv := snap.Inventory
	fmt.Fprintf(&b, "## INVENTORY SUMMARY\n")
	fmt.Fprintf(&b, "- Total Component Types: %d\n", inv.TotalTypes)
	fmt.Fprintf(&b, "- Total Items: %d\n", inv.TotalItems)
	fmt.Fprintf(&b, "- Available Items: %d\n", inv.TotalAvailable)
	fmt.Fprintf(&b, "- Out of Stock: %d types\n", len(inv.OutOfStock))
	fmt.Fprintf(&b, "- Low Stock (<=2): %d types\n\n", len(inv.LowStock))

	fmt.Fprintf(&b, "### Components by Category:\n")
	cats := make([]string, 0, len(inv.ByCategory))
	for cat := range inv.ByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Fprintf(&b, "\n**%s:**\n", strings.ToUpper(cat))
		for _, item := range inv.ByCategory[cat] {
			status := fmt.Sprintf("%d/%d available", item.Available, item.Total)
			if item.Available == 0 {
				status = "OUT OF STOCK"
			}
			fmt.Fprintf(&b, "  - %s: %s | Location: %s\n", item.Name, status, item.Location)
		}
	}

	tx := snap.Transactions
	fmt.Fprintf(&b, "\n## ACTIVE BORROWS (%d total)\n", tx.TotalActive)
	if len(tx.Active) == 0 {
		fmt.Fprintf(&b, "  No active borrows.\n")
	} else {
		for i, loan := range tx.Active {
			if i == 20 {
				break
			}
			mark := ""
			if loan.IsOverdue {
				mark = " [OVERDUE]"
			}
			fmt.Fprintf(&b, "  - %s x%d -> %s (Roll: %s) - Due: %s%s\n",
				loan.ComponentName, loan.Quantity, loan.StudentName, loan.StudentRoll, loan.DueDate, mark)
		}
	}

	fmt.Fprintf(&b, "\n## OVERDUE ITEMS (%d total)\n", tx.TotalOverdue)
	if len(tx.Overdue) == 0 {
		fmt.Fprintf(&b, "  No overdue items.\n")
	} else {
		for _, loan := range tx.Overdue {
			fmt.Fprintf(&b, "  - %s x%d - %s (Roll: %s) - %d days overdue\n",
				loan.ComponentName, loan.Quantity, loan.StudentName, loan.StudentRoll, loan.DaysOverdue)
		}
	}

	fmt.Fprintf(&b, "\n## WHO HAS WHAT (By Student)\n")
	students := make([]string, 0, len(tx.ByStudent))
	for name := range tx.ByStudent {
		students = append(students, name)
	}
	sort.Strings(students)
	if len(students) > 15 {
		students = students[:15]
	}
	for _, name := range students {
		data := tx.ByStudent[name]
		fmt.Fprintf(&b, "\n**%s** (Roll: %s):\n", name, data.Roll)
		for _, item := range data.Items {
			fmt.Fprintf(&b, "  - %s x%d\n", item.ComponentName, item.Quantity)
		}
	}

	fmt.Fprintf(&b, "\n## QUICK STATS\n")
	fmt.Fprintf(&b, "- Total component types: %d\n", snap.Stats.TotalComponentTypes)
	fmt.Fprintf(&b, "- Currently borrowed items: %d\n", snap.Stats.ActiveBorrows)
	fmt.Fprintf(&b, "- Overdue items: %d\n", snap.Stats.OverdueCount)

	b.WriteString(`
## YOUR CAPABILITIES
1. **Find Components**: Tell users exactly where components are located
2. **Check Availability**: Show real-time stock levels
3. **Track Borrows**: Tell who has what component
4. **Identify Overdues**: Alert about overdue items
5. **Answer Questions**: About inventory, procedures, component specs

## RESPONSE GUIDELINES
1. **BE ACCURATE**: Only state facts from the data above. Never guess.
2. **BE SPECIFIC**: Include quantities, locations, names, dates.
3. **USE FORMATTING**: Use bullet points, bold for emphasis.
4. **HIGHLIGHT ISSUES**: Warn about low stock, overdue items.
5. **BE HELPFUL**: Suggest related components if something is unavailable.

## EXAMPLE ACCURATE RESPONSES

User: "Where is the Arduino?"
Response: Based on the inventory, I found:
- **Arduino Uno**: 5/10 available | Location: Shelf A-2
- **Arduino Nano**: 3/5 available | Location: Drawer B-1

User: "Who has ESP32?"
Response: According to current records:
- John (Roll: 21CS001) has 2x ESP32
- Sarah (Roll: 21EC005) has 1x ESP32

If a component is NOT in the database, say: "I don't have any record of [component] in the inventory."

IMPORTANT: Never make up data. Only use information from the context above.`)

	return b.String()
}
