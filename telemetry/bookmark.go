package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRogueWave      BookmarkType = "rogue_wave"
	BookmarkExtremeCrest   BookmarkType = "extreme_crest"
	BookmarkSeaStateShift  BookmarkType = "sea_state_shift"
	BookmarkResidualGrowth BookmarkType = "residual_growth"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" msgpack:"type"`
	Frame       int32        `csv:"frame" msgpack:"frame"`
	SimTimeSec  float64      `csv:"sim_time" msgpack:"sim_time"`
	Description string       `csv:"description" msgpack:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// Thresholds configures the bookmark detector.
type Thresholds struct {
	HeightRatio   float64 // crest-to-trough over baseline Hs
	CrestRatio    float64 // crest over baseline Hs
	HsShift       float64 // relative Hs change against the rolling baseline
	ResidualLimit float64 // largest acceptable imaginary residual
}

// DefaultThresholds returns the conventional oceanographic criteria:
// H > 2 Hs or crest > 1.25 Hs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeightRatio:   2.0,
		CrestRatio:    1.25,
		HsShift:       0.2,
		ResidualLimit: 1e-3,
	}
}

// BookmarkDetector flags notable windows of the sea state.
type BookmarkDetector struct {
	th Thresholds

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	residualFlagged bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, th Thresholds) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		th:          th,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	baseline := bd.baselineHs()
	if baseline == 0 {
		baseline = stats.HsMean
	}

	if b := bd.checkRogueWave(stats, baseline); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkExtremeCrest(stats, baseline); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSeaStateShift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
		// Old windows describe a different sea; start over.
		bd.historyIdx, bd.historyFull = 0, false
	}
	if b := bd.checkResidual(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// baselineHs is the mean Hs over the history, or 0 without history.
func (bd *BookmarkDetector) baselineHs() float64 {
	history := bd.getHistory()
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, h := range history {
		sum += h.HsMean
	}
	return sum / float64(len(history))
}

func (bd *BookmarkDetector) bookmark(t BookmarkType, stats WindowStats, desc string) *Bookmark {
	return &Bookmark{
		Type:        t,
		Frame:       stats.WindowEndFrame,
		SimTimeSec:  stats.SimTimeSec,
		Description: desc,
	}
}

func (bd *BookmarkDetector) checkRogueWave(stats WindowStats, hs float64) *Bookmark {
	if hs <= 0 || stats.MaxWaveHeight <= bd.th.HeightRatio*hs {
		return nil
	}
	return bd.bookmark(BookmarkRogueWave, stats,
		fmt.Sprintf("Wave height %.2fm is %.2fx Hs (%.2fm)", stats.MaxWaveHeight, stats.MaxWaveHeight/hs, hs))
}

func (bd *BookmarkDetector) checkExtremeCrest(stats WindowStats, hs float64) *Bookmark {
	if hs <= 0 || stats.MaxCrest <= bd.th.CrestRatio*hs {
		return nil
	}
	return bd.bookmark(BookmarkExtremeCrest, stats,
		fmt.Sprintf("Crest %.2fm is %.2fx Hs (%.2fm)", stats.MaxCrest, stats.MaxCrest/hs, hs))
}

func (bd *BookmarkDetector) checkSeaStateShift(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 2 {
		return nil
	}
	baseline := bd.baselineHs()
	if baseline <= 0 {
		return nil
	}
	change := stats.HsMean/baseline - 1
	if change < bd.th.HsShift && change > -bd.th.HsShift {
		return nil
	}
	return bd.bookmark(BookmarkSeaStateShift, stats,
		fmt.Sprintf("Hs moved %+.0f%% from %.2fm to %.2fm", change*100, baseline, stats.HsMean))
}

// checkResidual fires once when the residual first exceeds the limit.
func (bd *BookmarkDetector) checkResidual(stats WindowStats) *Bookmark {
	if stats.MaxResidual <= bd.th.ResidualLimit {
		bd.residualFlagged = false
		return nil
	}
	if bd.residualFlagged {
		return nil
	}
	bd.residualFlagged = true
	return bd.bookmark(BookmarkResidualGrowth, stats,
		fmt.Sprintf("Imaginary residual %.3g exceeds %.3g", stats.MaxResidual, bd.th.ResidualLimit))
}
