package school

import (
	"fmt"
	"strings"

	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
)

// MetaKind names a per-school metadata record.
type MetaKind string

const (
	MetaCategories MetaKind = "categories"
	MetaLocations  MetaKind = "locations"
)

// Locations is the floor > area > room tree calls are raised from.
type Locations struct {
	Floors []Floor `json:"floors" yaml:"floors"`
}

type Floor struct {
	ID         string         `json:"id" yaml:"id"`
	Label      string         `json:"label" yaml:"label"`
	Categories []LocationArea `json:"categories" yaml:"categories"`
}

type LocationArea struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Rooms []Room `json:"rooms" yaml:"rooms"`
}

type Room struct {
	ID         string `json:"id" yaml:"id"`
	RoomNumber string `json:"roomNumber" yaml:"roomNumber"`
	Label      string `json:"label" yaml:"label"`
}

// Validate requires non-empty IDs and labels, unique per level.
func (l Locations) Validate() error {
	floors := make(map[string]bool)
	for _, f := range l.Floors {
		if strings.TrimSpace(f.ID) == "" || strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("floor id and label are required")
		}
		if floors[f.ID] {
			return fmt.Errorf("duplicate floor id: %s", f.ID)
		}
		floors[f.ID] = true

		areas := make(map[string]bool)
		for _, a := range f.Categories {
			if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.Label) == "" {
				return fmt.Errorf("area id and label are required on floor %s", f.ID)
			}
			if areas[a.ID] {
				return fmt.Errorf("duplicate area id %s on floor %s", a.ID, f.ID)
			}
			areas[a.ID] = true

			rooms := make(map[string]bool)
			for _, r := range a.Rooms {
				if strings.TrimSpace(r.ID) == "" {
					return fmt.Errorf("room id is required in area %s", a.ID)
				}
				if rooms[r.ID] {
					return fmt.Errorf("duplicate room id %s in area %s", r.ID, a.ID)
				}
				rooms[r.ID] = true
			}
		}
	}
	return nil
}

// DefaultLocations is served until a school defines its own tree.
func DefaultLocations() Locations {
	return Locations{
		Floors: []Floor{
			{
				ID:    "ground",
				Label: "Ground floor",
				Categories: []LocationArea{
					{ID: "classrooms", Label: "Classrooms", Rooms: []Room{
						{ID: "room_001", RoomNumber: "001", Label: "Classroom 1"},
						{ID: "room_002", RoomNumber: "002", Label: "Classroom 2"},
					}},
					{ID: "offices", Label: "Offices", Rooms: []Room{
						{ID: "office_principal", RoomNumber: "009", Label: "Principal's office"},
						{ID: "teachers_lounge", RoomNumber: "011", Label: "Teachers' lounge"},
					}},
				},
			},
		},
	}
}

// CategoriesOrDefault returns opts, or the built-in list when opts is empty.
func CategoriesOrDefault(opts []vo.CategoryOption) []vo.CategoryOption {
	if len(opts) == 0 {
		return vo.DefaultCategories()
	}
	return opts
}
