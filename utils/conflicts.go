package utils

import (
	"fmt"
	"strings"
)

// ConflictSeverity categorizes how serious a flagged conflict is.
type ConflictSeverity string

const (
	ConflictHigh   ConflictSeverity = "high"   // allergies
	ConflictMedium ConflictSeverity = "medium" // restrictions, diet type
)

// Conflict is a structured finding shown in the API / UI and attached to
// AI insight results as a warning annotation.
type Conflict struct {
	Code     string           `json:"code"` // "allergy" | "restriction" | "diet"
	Severity ConflictSeverity `json:"severity"`
	Food     string           `json:"food"`
	Term     string           `json:"term"`
	Message  string           `json:"message"`
}

// ConflictProfile is the slice of the user profile the checker needs.
type ConflictProfile struct {
	DietType     string
	Allergies    string // comma/newline separated free text
	Restrictions string
}

// Disallowed-ingredient keywords per diet type. Each list is a superset of
// the previous one: pescatarian excludes land meat, vegetarian additionally
// excludes seafood, vegan additionally excludes animal products.
var meatKeywords = []string{
	"beef", "pork", "chicken", "turkey", "lamb", "mutton",
	"bacon", "ham", "sausage", "steak", "veal", "duck",
}

var seafoodKeywords = []string{
	"fish", "salmon", "tuna", "shrimp", "prawn", "crab",
	"lobster", "anchovy", "sardine", "oyster", "squid", "seafood",
}

var animalProductKeywords = []string{
	"milk", "cheese", "butter", "egg", "yogurt", "yoghurt",
	"cream", "honey", "ghee", "paneer", "whey", "gelatin",
}

var highCarbKeywords = []string{
	"sugar", "bread", "rice", "pasta", "potato", "noodle",
	"cereal", "cake", "candy", "soda", "pastry",
}

var nonPaleoKeywords = []string{
	"bread", "pasta", "rice", "cereal", "oats", "wheat",
	"milk", "cheese", "yogurt", "beans", "lentil", "peanut", "soy",
}

// DietKeywords returns the disallowed keyword set for a diet type.
func DietKeywords(dietType string) []string {
	switch strings.ToLower(strings.TrimSpace(dietType)) {
	case "pescatarian":
		return meatKeywords
	case "vegetarian":
		return append(append([]string{}, meatKeywords...), seafoodKeywords...)
	case "vegan":
		out := append(append([]string{}, meatKeywords...), seafoodKeywords...)
		return append(out, animalProductKeywords...)
	case "keto":
		return highCarbKeywords
	case "paleo":
		return nonPaleoKeywords
	default:
		return nil
	}
}

// SplitTerms tokenizes a free-text allergy/restriction list: split on commas
// and newlines, trim, lowercase, drop empties.
func SplitTerms(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// CheckConflicts cross-references food names against the user's allergies,
// restrictions and diet type. Matching is case-insensitive substring
// containment, not word-boundary: "peanut" flags "peanut butter sandwich",
// but "egg" also flags "eggplant". That over-matching is deliberate: for
// allergy screening a false positive is cheaper than a miss.
//
// Total function: never errors, never touches the network. Output order is
// deterministic: foods in input order; per food allergies first, then
// restrictions, then diet matches.
func CheckConflicts(foods []string, profile ConflictProfile) []Conflict {
	allergies := SplitTerms(profile.Allergies)
	restrictions := SplitTerms(profile.Restrictions)
	dietTerms := DietKeywords(profile.DietType)
	diet := strings.ToLower(strings.TrimSpace(profile.DietType))

	var out []Conflict
	for _, food := range foods {
		lower := strings.ToLower(food)
		for _, term := range allergies {
			if strings.Contains(lower, term) {
				out = append(out, Conflict{
					Code:     "allergy",
					Severity: ConflictHigh,
					Food:     food,
					Term:     term,
					Message:  fmt.Sprintf("%q may contain allergen %q", food, term),
				})
			}
		}
		for _, term := range restrictions {
			if strings.Contains(lower, term) {
				out = append(out, Conflict{
					Code:     "restriction",
					Severity: ConflictMedium,
					Food:     food,
					Term:     term,
					Message:  fmt.Sprintf("%q conflicts with restriction %q", food, term),
				})
			}
		}
		for _, term := range dietTerms {
			if strings.Contains(lower, term) {
				out = append(out, Conflict{
					Code:     "diet",
					Severity: ConflictMedium,
					Food:     food,
					Term:     term,
					Message:  fmt.Sprintf("%q is not typical for a %s diet (%q)", food, diet, term),
				})
			}
		}
	}
	return out
}

// ConflictMessages flattens conflicts into display strings.
func ConflictMessages(conflicts []Conflict) []string {
	out := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.Message)
	}
	return out
}
