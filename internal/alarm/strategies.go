package alarm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const alarmMessage = "Laundry done"

// Passive only shows the finish time
type Passive struct{}

func (Passive) Name() string { return "passive" }

func (p Passive) RequestAlarm(ctx context.Context, req Request) Outcome {
	return Outcome{
		Strategy:  p.Name(),
		Platform:  DetectPlatform(req.UserAgent),
		Supported: true,
		Action:    ActionDisplay,
		Message:   fmt.Sprintf("Come back at %s to take your laundry out", req.Time()),
		Time:      req.Time(),
	}
}

// IntentLink offers OS alarm links for every platform and lets the user pick
type IntentLink struct{}

func (IntentLink) Name() string { return "intent" }

func (i IntentLink) RequestAlarm(ctx context.Context, req Request) Outcome {
	return Outcome{
		Strategy:  i.Name(),
		Platform:  DetectPlatform(req.UserAgent),
		Supported: true,
		Action:    ActionLink,
		Links:     []Link{androidLink(req), iosLink(req)},
		Message:   fmt.Sprintf("Tap the link for your phone to set an alarm for %s", req.Time()),
		Time:      req.Time(),
	}
}

// Button picks the integration that matches the visitor's device
type Button struct{}

func (Button) Name() string { return "button" }

func (b Button) RequestAlarm(ctx context.Context, req Request) Outcome {
	out := Outcome{
		Strategy: b.Name(),
		Platform: DetectPlatform(req.UserAgent),
		Time:     req.Time(),
	}

	switch out.Platform {
	case PlatformAndroid:
		out.Supported = true
		out.Action = ActionLink
		out.Links = []Link{androidLink(req)}
		out.Message = fmt.Sprintf("Set a %s alarm in your clock app", req.Time())
	case PlatformIOS:
		out.Supported = true
		out.Action = ActionLink
		out.Links = []Link{iosLink(req)}
		out.Message = fmt.Sprintf("Run the shortcut to set a %s alarm", req.Time())
	case PlatformDesktop:
		out.Supported = req.DelayMinutes > 0
		out.Action = ActionNotification
		out.DelayMinutes = req.DelayMinutes
		out.Message = fmt.Sprintf("Allow notifications and we will remind you at %s", req.Time())
	default:
		out.Action = ActionNone
		out.Message = fmt.Sprintf("Alarms are not supported on this device, set one for %s yourself", req.Time())
	}

	if !out.Supported && out.Action == ActionNotification {
		out.Message = fmt.Sprintf("Set an alarm for %s yourself", req.Time())
	}

	return out
}

// DetectPlatform sniffs the device family from a user agent
func DetectPlatform(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return PlatformUnknown
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	case strings.Contains(ua, "windows"), strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "x11"), strings.Contains(ua, "linux"), strings.Contains(ua, "cros"):
		return PlatformDesktop
	default:
		return PlatformUnknown
	}
}

// androidLink builds an AlarmClock.ACTION_SET_ALARM intent URL
func androidLink(req Request) Link {
	extras := []string{
		"action=android.intent.action.SET_ALARM",
		fmt.Sprintf("i.android.intent.extra.alarm.HOUR=%d", req.Hour),
		fmt.Sprintf("i.android.intent.extra.alarm.MINUTES=%d", req.Minute),
		"S.android.intent.extra.alarm.MESSAGE=" + url.PathEscape(alarmMessage),
		"B.android.intent.extra.alarm.SKIP_UI=true",
	}
	return Link{
		Label:    "Set Android alarm",
		URL:      "intent:#Intent;" + strings.Join(extras, ";") + ";end",
		Platform: PlatformAndroid,
	}
}

// iosLink runs a user shortcut that creates the alarm, since iOS has no alarm URL scheme
func iosLink(req Request) Link {
	params := url.Values{}
	params.Set("name", "Set Laundry Alarm")
	params.Set("input", "text")
	params.Set("text", req.Time())
	return Link{
		Label:    "Set iPhone alarm",
		URL:      "shortcuts://run-shortcut?" + params.Encode(),
		Platform: PlatformIOS,
	}
}
