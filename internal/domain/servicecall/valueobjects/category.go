package valueobjects

import (
	"fmt"
	"regexp"
)

// Category is a per-school category code such as "printer". Schools may
// define their own codes; DefaultCategories applies when they have not.
type Category string

const (
	CategoryHardware Category = "hardware"
	CategorySoftware Category = "software"
	CategoryNetwork  Category = "network"
	CategorySecurity Category = "security"
	CategoryPrinter  Category = "printer"
	CategoryOther    Category = "other"
)

var categoryCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,49}$`)

// CategoryOption is one entry of a school's category list.
type CategoryOption struct {
	Value Category `json:"value" yaml:"value"`
	Label string   `json:"label" yaml:"label"`
	Icon  string   `json:"icon,omitempty" yaml:"icon,omitempty"`
}

func (c Category) String() string {
	return string(c)
}

// IsWellFormed checks the code syntax only. Whether a school knows the code
// is decided against its category list with IsKnown.
func (c Category) IsWellFormed() bool {
	return categoryCodePattern.MatchString(string(c))
}

func (c Category) IsKnown(options []CategoryOption) bool {
	for _, o := range options {
		if o.Value == c {
			return true
		}
	}
	return false
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsWellFormed() {
		return "", fmt.Errorf("invalid category code: %q", s)
	}
	return c, nil
}

func DefaultCategories() []CategoryOption {
	return []CategoryOption{
		{Value: CategoryHardware, Label: "Hardware", Icon: "monitor"},
		{Value: CategorySoftware, Label: "Software", Icon: "code"},
		{Value: CategoryNetwork, Label: "Network", Icon: "wifi"},
		{Value: CategorySecurity, Label: "Security", Icon: "shield"},
		{Value: CategoryPrinter, Label: "Printer", Icon: "printer"},
		{Value: CategoryOther, Label: "Other", Icon: "help-circle"},
	}
}

// ValidateOptions checks a replacement category list: well-formed codes,
// no duplicates, at least one entry.
func ValidateOptions(options []CategoryOption) error {
	if len(options) == 0 {
		return fmt.Errorf("category list cannot be empty")
	}
	seen := make(map[Category]bool, len(options))
	for _, o := range options {
		if !o.Value.IsWellFormed() {
			return fmt.Errorf("invalid category code: %q", o.Value)
		}
		if seen[o.Value] {
			return fmt.Errorf("duplicate category code: %s", o.Value)
		}
		seen[o.Value] = true
	}
	return nil
}
