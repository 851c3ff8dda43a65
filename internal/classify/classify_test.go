package classify

import "testing"

func TestClassifyExtractsMakeAndTopic(t *testing.T) {
	cases := []struct {
		message   string
		wantMake  string
		wantTopic string
	}{
		{"Tell me about the Audi Q5", "audi", ""},
		{"Do you have any Nissan Rogues in inventory?", "nissan", "inventory"},
		{"What's the price on a Porsche Macan?", "porsche", "price"},
		{"I'd like to schedule a test-drive", "", "test-drive"},
		{"MERCEDES service appointment", "mercedes", "service"},
		{"any current offers?", "", "offer"},
		{"hello there", "", ""},
	}

	for _, tc := range cases {
		q := Classify(tc.message)
		if q.Make != tc.wantMake {
			t.Fatalf("Classify(%q).Make = %q, want %q", tc.message, q.Make, tc.wantMake)
		}
		if q.Topic != tc.wantTopic {
			t.Fatalf("Classify(%q).Topic = %q, want %q", tc.message, q.Topic, tc.wantTopic)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Both brands appear; enumeration order decides.
	q := Classify("compare the volvo against the nissan")
	if q.Make != "nissan" {
		t.Fatalf("Make = %q, want nissan (enumeration order)", q.Make)
	}
}

func TestClassifyEmptyQueryIsValid(t *testing.T) {
	q := Classify("what a lovely day")
	if !q.IsEmpty() {
		t.Fatalf("expected empty query, got %+v", q)
	}
	if q.HasMake() || q.HasTopic() {
		t.Fatalf("empty query should have no make or topic")
	}
}

func TestMatchesTime(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"What time is it?", true},
		{"what is today's date", true},
		{"are you open right now", true},
		{"tell me about the Q5", false},
	}
	for _, tc := range cases {
		if got := MatchesTime(tc.message); got != tc.want {
			t.Fatalf("MatchesTime(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestStaticCategory(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"What are your hours?", "hours"},
		{"where are you located", "location"},
		{"what's your phone number, can I call you", "contact"},
		{"what services do you provide", "services"},
		{"tell me about the e-tron", ""},
	}
	for _, tc := range cases {
		if got := StaticCategory(tc.message); got != tc.want {
			t.Fatalf("StaticCategory(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
