package classify

import "strings"

// Query holds the structured fields extracted from a free-text message.
// Absent fields are empty strings or nil slices, never sentinel values.
type Query struct {
	Make          string
	Topic         string
	Tone          string
	PopularModels []string
}

func (q Query) HasMake() bool  { return q.Make != "" }
func (q Query) HasTopic() bool { return q.Topic != "" }

// IsEmpty reports whether no field matched, meaning no external vehicle
// data is needed for this message.
func (q Query) IsEmpty() bool { return q.Make == "" && q.Topic == "" }

// Brands lists the makes sold on the lot. Match order is fixed; the first
// brand found in the message wins.
var Brands = []string{"nissan", "audi", "mercedes", "porsche", "volkswagen", "volvo"}

// Topics lists the recognized intent keywords, checked in order.
var Topics = []string{"inventory", "price", "test-drive", "service", "offer"}

var timeKeywords = []string{
	"what time", "current time", "time is it", "today's date", "todays date",
	"what day", "current date", "date today", "right now",
}

var staticCategories = []struct {
	category string
	keywords []string
}{
	{"hours", []string{"hours", "open", "close", "closing", "opening"}},
	{"location", []string{"location", "address", "where are you", "directions"}},
	{"contact", []string{"contact", "phone", "call you", "email"}},
	{"services", []string{"services", "what do you offer", "repairs", "maintenance"}},
}

// Classify extracts a Query from a raw message. It is pure and
// deterministic: case-insensitive substring matching against the fixed
// brand and topic enumerations, first match wins. A message matching
// nothing yields an empty Query, which is a valid outcome.
func Classify(message string) Query {
	lower := strings.ToLower(message)

	var q Query
	for _, brand := range Brands {
		if strings.Contains(lower, brand) {
			q.Make = brand
			break
		}
	}
	for _, topic := range Topics {
		if strings.Contains(lower, topic) {
			q.Topic = topic
			break
		}
	}
	return q
}

// MatchesTime reports whether the message asks about the current date or
// time. Such messages are answered from the realtime source directly.
func MatchesTime(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range timeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// StaticCategory returns the static-knowledge category the message falls
// into (hours, location, contact, services), or "" when none applies.
func StaticCategory(message string) string {
	lower := strings.ToLower(message)
	for _, sc := range staticCategories {
		for _, kw := range sc.keywords {
			if strings.Contains(lower, kw) {
				return sc.category
			}
		}
	}
	return ""
}
