package ps

import (
	"os"
	"testing"
)

func TestProcessStatus(t *testing.T) {
	p, err := ProcessStatus()
	if err != nil {
		t.Skipf("process stats unavailable: %s", err)
	}
	if p.PID != int32(os.Getpid()) {
		t.Fatalf("pid = %d, want %d", p.PID, os.Getpid())
	}
	if p.RSS == 0 || p.RSSHuman == "" {
		t.Fatalf("rss not reported: %+v", p)
	}
}

func TestSnapshot(t *testing.T) {
	s, err := Snapshot()
	if err != nil {
		t.Skipf("system stats unavailable: %s", err)
	}
	if s.Memory.Total == 0 {
		t.Fatalf("memory total not reported: %+v", s.Memory)
	}
	if s.CPU.Percent < 0 {
		t.Fatalf("negative cpu percent: %v", s.CPU.Percent)
	}
}
