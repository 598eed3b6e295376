package chat

import "strings"

const (
	IntentGeneral      = "general"
	IntentLocation     = "location"
	IntentWhoHas       = "who_has"
	IntentAvailability = "availability"
	IntentOverdue      = "overdue"
	IntentListAll      = "list_all"
	IntentBorrowHelp   = "borrow_help"
	IntentReturnHelp   = "return_help"
)

type Intent struct {
	Type       string
	Components []string
}

var intentKeywords = []struct {
	intent string
	words  []string
}{
	{IntentLocation, []string{"where", "location", "find", "located"}},
	{IntentWhoHas, []string{"who has", "who took", "who borrowed", "issued to"}},
	{IntentAvailability, []string{"available", "stock", "how many", "quantity", "left"}},
	{IntentOverdue, []string{"overdue", "late", "pending", "due"}},
	{IntentListAll, []string{"all", "list", "show", "inventory"}},
	{IntentBorrowHelp, []string{"borrow", "take", "checkout", "issue"}},
	{IntentReturnHelp, []string{"return", "give back"}},
}

// componentVocabulary are the electronics terms recognized as component
// references inside a query.
var componentVocabulary = []string{
	"arduino", "esp32", "esp8266", "raspberry", "pi", "sensor", "led",
	"resistor", "capacitor", "motor", "servo", "stepper", "display",
	"oled", "lcd", "relay", "transistor", "diode", "wire", "breadboard",
	"jumper", "cable", "usb", "battery", "power", "supply", "module",
	"wifi", "bluetooth", "gps", "ultrasonic", "infrared", "temperature",
	"humidity", "pressure", "accelerometer", "gyroscope", "camera",
	"microphone", "speaker", "buzzer", "button", "switch", "potentiometer",
	"rfid", "nfc", "lora", "gsm", "sim", "ethernet", "shield",
}

// ClassifyIntent picks the first matching intent in priority order and pulls
// out any recognized component terms.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)

	intent := Intent{Type: IntentGeneral}
	for _, rule := range intentKeywords {
		for _, w := range rule.words {
			if strings.Contains(q, w) {
				intent.Type = rule.intent
				break
			}
		}
		if intent.Type != IntentGeneral {
			break
		}
	}

	for _, term := range componentVocabulary {
		if strings.Contains(q, term) {
			intent.Components = append(intent.Components, term)
		}
	}
	return intent
}
