package timeouts

import (
	"testing"
	"time"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv("PLACEMENTHUB_TIMEOUT_PING", "750ms")
	t.Setenv("PLACEMENTHUB_TIMEOUT_LONG", "not-a-duration")
	t.Setenv("PLACEMENTHUB_TIMEOUT_BATCH", "-5s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if Ping() != 750*time.Millisecond {
		t.Errorf("Ping() = %v, want 750ms", Ping())
	}
	if Long() != DefaultLong {
		t.Errorf("Long() = %v, want default", Long())
	}
	if Batch() != DefaultBatch {
		t.Errorf("Batch() = %v, want default", Batch())
	}
}

func TestCurrent_ReflectsConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Batch: 2 * time.Minute, Ping: -1})
	got := Current()
	if got.Batch != 2*time.Minute {
		t.Errorf("Current().Batch = %v, want 2m", got.Batch)
	}
	if got.Ping != DefaultPing {
		t.Errorf("Current().Ping = %v, want default", got.Ping)
	}
}
