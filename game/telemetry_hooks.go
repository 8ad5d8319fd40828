package game

import (
	"log/slog"

	"github.com/pthm-cable/swell/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	stats := g.collector.Flush(g.frame)
	perfStats := g.perfCollector.Stats()
	bins := g.spectrum.Radial(g.fields.Height)
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		slog.Info("spectrum", "frame", g.frame, "peak_k", telemetry.PeakK(bins))
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := g.outputManager.WriteSpectrum(g.frame, bins); err != nil {
		slog.Error("failed to write spectrum", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		g.lastBookmark = bm
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current fields to the snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snap := telemetry.NewSnapshot(g.sim.Params(), g.frame, g.fields, bookmark)

	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", g.frame)
}
