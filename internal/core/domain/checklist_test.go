package domain

import (
	"strings"
	"testing"
)

func TestChecklistHasFourteenOrderedItems(t *testing.T) {
	items := Checklist()
	if len(items) != ChecklistSize {
		t.Fatalf("expected %d checklist items, got %d", ChecklistSize, len(items))
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" {
			t.Fatalf("item %d has empty id", i)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate checklist id %q", item.ID)
		}
		seen[item.ID] = true
		if strings.TrimSpace(item.Description) == "" {
			t.Fatalf("item %q has empty description", item.ID)
		}
	}

	if !strings.Contains(items[0].Description, "Fees application receipt") {
		t.Fatalf("expected fees receipt first, got %q", items[0].Description)
	}
	if !strings.Contains(items[ChecklistSize-1].Description, "Reference list") {
		t.Fatalf("expected reference list last, got %q", items[ChecklistSize-1].Description)
	}
}

func TestChecklistReturnsACopy(t *testing.T) {
	first := Checklist()
	first[0].Description = "mutated"

	if Checklist()[0].Description == "mutated" {
		t.Fatalf("catalog must not be mutable through Checklist()")
	}
}

func TestMatchChecklistItem(t *testing.T) {
	canonical := ChecklistDescriptions()[5]

	tests := []struct {
		name     string
		category string
		match    bool
	}{
		{name: "exact", category: canonical, match: true},
		{name: "surrounding whitespace", category: "  " + canonical + "\n", match: true},
		{name: "free text drift", category: "Factory layout chart", match: false},
		{name: "empty", category: "", match: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := MatchChecklistItem(tc.category)
			if ok != tc.match {
				t.Fatalf("MatchChecklistItem(%q) = %v, want %v", tc.category, ok, tc.match)
			}
		})
	}
}
