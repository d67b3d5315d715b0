package engine

import (
	"errors"
	"fmt"
)

var ErrUnknownOffset = errors.New("unknown time offset")

// Offset is one of the choices a user can make for when to do laundry
type Offset struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Hours int    `json:"hours"`
}

// Offsets lists the selectable offsets in display order
var Offsets = []Offset{
	{Key: "now", Label: "Right now", Hours: 0},
	{Key: "1h", Label: "In 1 hour", Hours: 1},
	{Key: "3h", Label: "In 3 hours", Hours: 3},
	{Key: "6h", Label: "In 6 hours", Hours: 6},
	{Key: "8h", Label: "In 8 hours", Hours: 8},
}

// ParseOffset looks up an offset by key. An empty key means now.
func ParseOffset(key string) (Offset, error) {
	if key == "" {
		return Offsets[0], nil
	}
	for _, o := range Offsets {
		if o.Key == key {
			return o, nil
		}
	}
	return Offset{}, fmt.Errorf("%w: %q", ErrUnknownOffset, key)
}
