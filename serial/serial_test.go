package serial

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" {
		t.Errorf("expected device %q, got %q", "/dev/ttyACM0", cfg.Device)
	}
	if cfg.Baud != 115200 {
		t.Errorf("expected baud 115200, got %d", cfg.Baud)
	}
	if cfg.ReadTimeout != 100 {
		t.Errorf("expected read timeout 100, got %d", cfg.ReadTimeout)
	}
}

func TestOpen(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		if _, err := Open(nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("MissingDevice", func(t *testing.T) {
		if _, err := Open(DefaultConfig("/dev/nonexistent-monitor")); err == nil {
			t.Error("expected error")
		}
	})
}
