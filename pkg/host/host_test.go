package host

import (
	"testing"
	"time"
)

func TestUntil(t *testing.T) {
	d := Until(time.Now().Add(time.Hour))
	if d.TimeRemaining() <= 59*time.Minute {
		t.Errorf("TimeRemaining() = %v, want about an hour", d.TimeRemaining())
	}

	past := Until(time.Now().Add(-time.Second))
	if past.TimeRemaining() > 0 {
		t.Errorf("expired deadline reports %v", past.TimeRemaining())
	}
}

func TestUnlimited(t *testing.T) {
	if Unlimited.TimeRemaining() < 1000*time.Hour {
		t.Errorf("Unlimited.TimeRemaining() = %v", Unlimited.TimeRemaining())
	}
}

func TestDeadlineFunc(t *testing.T) {
	var d Deadline = DeadlineFunc(func() time.Duration { return 5 * time.Millisecond })
	if d.TimeRemaining() != 5*time.Millisecond {
		t.Errorf("TimeRemaining() = %v", d.TimeRemaining())
	}
}
