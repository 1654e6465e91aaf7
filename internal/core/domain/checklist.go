package domain

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChecklistSize is the number of required submission documents. The score
// denominator is pinned to it.
const ChecklistSize = 14

//go:embed checklist.yaml
var checklistYAML []byte

// ChecklistItem is one required-submission description from the NAMA vendor
// registration checklist. The catalog is static and ordered; IDs are stable
// identifiers for display and export, descriptions are the canonical strings
// sent to the classifier.
type ChecklistItem struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
}

var requiredDocuments = mustLoadChecklist()

func mustLoadChecklist() []ChecklistItem {
	var items []ChecklistItem
	if err := yaml.Unmarshal(checklistYAML, &items); err != nil {
		panic(fmt.Sprintf("parse embedded checklist: %v", err))
	}
	if len(items) != ChecklistSize {
		panic(fmt.Sprintf("embedded checklist has %d items, want %d", len(items), ChecklistSize))
	}
	return items
}

// Checklist returns the ordered required-document catalog. The returned slice
// is a copy; callers may not mutate the catalog.
func Checklist() []ChecklistItem {
	out := make([]ChecklistItem, len(requiredDocuments))
	copy(out, requiredDocuments)
	return out
}

// ChecklistDescriptions returns the canonical descriptions in catalog order.
func ChecklistDescriptions() []string {
	out := make([]string, len(requiredDocuments))
	for i, item := range requiredDocuments {
		out[i] = item.Description
	}
	return out
}

// MatchChecklistItem resolves a classifier-returned category string against the
// canonical catalog. Matching is exact after trimming surrounding whitespace;
// free-text categories that drift from the canonical wording do not match.
func MatchChecklistItem(category string) (ChecklistItem, bool) {
	needle := strings.TrimSpace(category)
	if needle == "" {
		return ChecklistItem{}, false
	}
	for _, item := range requiredDocuments {
		if item.Description == needle {
			return item, true
		}
	}
	return ChecklistItem{}, false
}
