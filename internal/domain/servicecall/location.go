package servicecall

import "fmt"

// Location identifies the room a call was raised from, as picked from the
// school's floor/category/room tree.
type Location struct {
	FloorLabel    string `json:"floorLabel"`
	CategoryLabel string `json:"categoryLabel"`
	RoomLabel     string `json:"roomLabel"`
	RoomNumber    string `json:"roomNumber"`
}

func (l Location) IsZero() bool {
	return l == Location{}
}

// Display renders the human-readable path, e.g. "Ground > Labs > Computer lab (room 007)".
func (l Location) Display() string {
	if l.IsZero() {
		return ""
	}
	if l.RoomNumber == "" {
		return fmt.Sprintf("%s > %s > %s", l.FloorLabel, l.CategoryLabel, l.RoomLabel)
	}
	return fmt.Sprintf("%s > %s > %s (room %s)", l.FloorLabel, l.CategoryLabel, l.RoomLabel, l.RoomNumber)
}

// Client is the staff member who opened the call.
type Client struct {
	ID    string
	Name  string
	Phone string
	Email string
}
