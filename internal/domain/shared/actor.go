// Package shared contains value types used by more than one aggregate.
package shared

import (
	"fmt"
	"strings"
)

// Actor is the already-authenticated identity a mutation is attributed to.
type Actor struct {
	ID   string
	Name string
}

func NewActor(id, name string) (Actor, error) {
	a := Actor{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	if err := a.Validate(); err != nil {
		return Actor{}, err
	}
	return a, nil
}

func (a Actor) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("actor ID is required")
	}
	return nil
}

// DisplayName falls back to the ID when no name was supplied.
func (a Actor) DisplayName() string {
	if a.Name == "" {
		return a.ID
	}
	return a.Name
}
