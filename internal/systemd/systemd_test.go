package systemd

import "testing"

func TestOutsideSystemd(t *testing.T) {
	t.Setenv("LISTEN_PID", "")
	t.Setenv("LISTEN_FDS", "")
	t.Setenv("NOTIFY_SOCKET", "")

	ln, err := Listener()
	if err != nil {
		t.Fatalf("Listener failed: %v", err)
	}
	if ln != nil {
		t.Errorf("expected no activated listener, got %v", ln.Addr())
	}

	if err := NotifyReady(); err != nil {
		t.Errorf("NotifyReady failed: %v", err)
	}
	if err := NotifyStopping(); err != nil {
		t.Errorf("NotifyStopping failed: %v", err)
	}
}
