// Package capability describes whether a browser facility (camera, microphone, speech) can be used.
package capability

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Status capability variant
type Status int

const (
	// Unavailable the facility does not exist on the client
	Unavailable Status = iota
	// Denied the facility exists but the user refused access
	Denied
	// Available the facility can be used
	Available
)

var (
	// ErrUnavailable facility missing
	ErrUnavailable = errors.New("capability unavailable")
	// ErrDenied permission refused
	ErrDenied = errors.New("capability permission denied")
)

var names = [...]string{"unavailable", "denied", "available"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(names) {
		return "unavailable"
	}
	return names[s]
}

// Err error matching the status, nil when available
func (s Status) Err() error {
	switch s {
	case Available:
		return nil
	case Denied:
		return ErrDenied
	default:
		return ErrUnavailable
	}
}

// Parse status name
func Parse(name string) (Status, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return Unavailable, fmt.Errorf("unknown capability status %q", name)
}

// FromError classify an acquisition error
func FromError(err error) Status {
	switch {
	case err == nil:
		return Available
	case errors.Is(err, ErrDenied):
		return Denied
	default:
		return Unavailable
	}
}

// MarshalJSON encode as the status name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decode from the status name
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	v, err := Parse(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
