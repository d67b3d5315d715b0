// Package alarm offers ways for a device to remind the user when the wash is done.
// Every strategy is best effort: an outcome may be unsupported, and that is reported
// to the user as a message rather than returned as an error.
package alarm

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownStrategy = errors.New("unknown alarm strategy")

// Platform is the device family detected from a user agent
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
	PlatformUnknown Platform = "unknown"
)

// Action is what the page should offer the user
type Action string

const (
	ActionDisplay      Action = "display"      // show the time only
	ActionLink         Action = "link"         // open an OS link
	ActionNotification Action = "notification" // schedule a browser notification
	ActionNone         Action = "none"
)

// Request asks for an alarm at a wall-clock time
type Request struct {
	Hour         int
	Minute       int
	DelayMinutes int // minutes from now until Hour:Minute
	UserAgent    string
}

// Time renders the requested time as HH:MM
func (r Request) Time() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Link is an OS integration link offered to the user
type Link struct {
	Label    string   `json:"label"`
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// Outcome describes what the strategy could offer on this device
type Outcome struct {
	Strategy     string   `json:"strategy"`
	Platform     Platform `json:"platform"`
	Supported    bool     `json:"supported"`
	Action       Action   `json:"action"`
	Links        []Link   `json:"links,omitempty"`
	Message      string   `json:"message"`
	Time         string   `json:"time"`
	DelayMinutes int      `json:"delay_minutes,omitempty"`
}

// Affordance is one way of helping the user set an alarm
type Affordance interface {
	Name() string
	RequestAlarm(ctx context.Context, req Request) Outcome
}

// New returns the strategy with the given name
func New(name string) (Affordance, error) {
	switch name {
	case "passive":
		return Passive{}, nil
	case "intent":
		return IntentLink{}, nil
	case "button", "":
		return Button{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Names lists the strategies New accepts
func Names() []string {
	return []string{"passive", "intent", "button"}
}
