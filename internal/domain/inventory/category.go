package inventory

import "fmt"

type Category string

const (
	CategoryCables      Category = "cables"
	CategoryPeripherals Category = "peripherals"
	CategoryComponents  Category = "components"
	CategoryConsumables Category = "consumables"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]bool{
	CategoryCables:      true,
	CategoryPeripherals: true,
	CategoryComponents:  true,
	CategoryConsumables: true,
	CategoryOther:       true,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return validCategories[c]
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid inventory category: %s", s)
	}
	return c, nil
}
