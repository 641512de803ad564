package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestProfiler_TickCountsConcurrently(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := NewProfiler(logger, "scattering", 800)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				p.Tick(10)
			}
		}()
	}
	wg.Wait()

	if got := p.Done(); got != 800 {
		t.Errorf("Done() = %d, want 800", got)
	}
}

func TestProfiler_LogsAfterInterval(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewProfiler(logger, "transmittance", 100)

	p.SetUpdateInterval(time.Hour)
	if p.Tick(10) {
		t.Error("Tick() logged before the interval elapsed")
	}

	p.SetUpdateInterval(0)
	if !p.Tick(10) {
		t.Fatal("Tick() did not log with a zero interval")
	}
	entry := hook.LastEntry()
	if entry.Message != "bake progress" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Data["table"] != "transmittance" || entry.Data["progress"] != 20.0 {
		t.Errorf("fields = %v", entry.Data)
	}
}

func TestProfiler_Finish(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewProfiler(logger, "irradiance", 4)
	p.Tick(4)

	if p.Finish() < 0 {
		t.Error("negative elapsed time")
	}
	entry := hook.LastEntry()
	if entry.Level != logrus.InfoLevel || entry.Message != "table baked" || entry.Data["texels"] != 4 {
		t.Errorf("entry = %v %q %v", entry.Level, entry.Message, entry.Data)
	}
}
