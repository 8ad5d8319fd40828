package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/swell/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// All methods are no-ops on a nil manager.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteSpectrum(0, []SpectrumBin{{K: 1}}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report empty dir and close cleanly")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(1); i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndFrame: i * 600, HsMean: 3}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkRogueWave, Frame: 600, Description: "big"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(NewPerfCollector(4).Stats(), 600); err != nil {
		t.Fatal(err)
	}
	bins := []SpectrumBin{{K: 0.1, Energy: 2, Count: 4}, {K: 0.3, Energy: 1, Count: 8}}
	if err := om.WriteSpectrum(600, bins); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	telemetry := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(telemetry) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(telemetry))
	}
	if !strings.HasPrefix(telemetry[0], "window_end,sim_time,frames") {
		t.Errorf("telemetry header = %q", telemetry[0])
	}
	if strings.Contains(telemetry[0], "WindowStartFrame") {
		t.Error("window start frame should not be exported")
	}

	bookmarks := readLines(t, filepath.Join(dir, "bookmarks.csv"))
	if len(bookmarks) != 2 || !strings.HasPrefix(bookmarks[1], "rogue_wave,600") {
		t.Errorf("bookmarks.csv = %q", bookmarks)
	}
	if spectrum := readLines(t, filepath.Join(dir, "spectrum.csv")); len(spectrum) != 3 {
		t.Errorf("spectrum.csv has %d lines, want 3", len(spectrum))
	}
	if perf := readLines(t, filepath.Join(dir, "perf.csv")); len(perf) != 2 {
		t.Errorf("perf.csv has %d lines, want 2", len(perf))
	}

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if reloaded.Ocean != cfg.Ocean {
		t.Errorf("config round trip: %+v != %+v", reloaded.Ocean, cfg.Ocean)
	}
}
