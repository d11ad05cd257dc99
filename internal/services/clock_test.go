package services

import (
	"testing"
	"time"
)

func TestClockOrSystem(t *testing.T) {
	if _, ok := clockOrSystem(nil).(SystemClock); !ok {
		t.Fatalf("nil clock should fall back to SystemClock")
	}
	if (SystemClock{}).Now().Location() != time.UTC {
		t.Fatalf("SystemClock must report UTC")
	}
}
