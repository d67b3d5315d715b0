// Package systemd wraps socket activation and readiness notification.
// Outside systemd every call is a no-op.
package systemd

import (
	"fmt"
	"net"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"
)

// ListenerName is the FileDescriptorName= the dashboard socket unit uses
const ListenerName = "http"

// Listener returns the socket-activated dashboard listener, or nil when the
// process was not started by a socket unit
func Listener() (net.Listener, error) {
	named, err := activation.ListenersWithNames()
	if err != nil {
		return nil, fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if len(named) == 0 {
		return nil, nil
	}

	if lns, ok := named[ListenerName]; ok && len(lns) > 0 {
		return lns[0], nil
	}

	// Unnamed sockets get the "unknown" name; take the first one
	for _, lns := range named {
		if len(lns) > 0 {
			return lns[0], nil
		}
	}
	return nil, nil
}

// NotifyReady sends READY=1 to systemd
func NotifyReady() error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		return fmt.Errorf("failed to send sd_notify: %w", err)
	}
	return nil
}

// NotifyStopping sends STOPPING=1 to systemd
func NotifyStopping() error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		return fmt.Errorf("failed to send sd_notify stopping: %w", err)
	}
	return nil
}
