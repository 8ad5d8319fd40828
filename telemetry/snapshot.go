package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/swell/ocean"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds one frame of surface fields together with the parameters
// that regenerate it.
type Snapshot struct {
	Version int `msgpack:"version"`

	Params ocean.Params `msgpack:"params"`
	Frame  int32        `msgpack:"frame"`
	Time   float64      `msgpack:"time"`

	N            int       `msgpack:"n"`
	Height       []float32 `msgpack:"height"`
	Displacement []float32 `msgpack:"displacement"`
	Normal       []float32 `msgpack:"normal"`
	Residual     float64   `msgpack:"residual"`

	Bookmark *Bookmark `msgpack:"bookmark,omitempty"`
}

// NewSnapshot copies the fields so the simulation may keep stepping.
func NewSnapshot(p ocean.Params, frame int32, f *ocean.Fields, bookmark *Bookmark) *Snapshot {
	c := f.Clone()
	return &Snapshot{
		Version:      SnapshotVersion,
		Params:       p,
		Frame:        frame,
		Time:         c.Time,
		N:            c.N,
		Height:       c.Height,
		Displacement: c.Displacement,
		Normal:       c.Normal,
		Residual:     c.Residual,
		Bookmark:     bookmark,
	}
}

// Fields rebuilds the surface fields held by the snapshot.
func (s *Snapshot) Fields() *ocean.Fields {
	return &ocean.Fields{
		N:            s.N,
		Time:         s.Time,
		Height:       s.Height,
		Displacement: s.Displacement,
		Normal:       s.Normal,
		Residual:     s.Residual,
	}
}

// SaveSnapshot writes a snapshot to the given directory and returns its path.
func SaveSnapshot(snap *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	filename := fmt.Sprintf("snapshot_%d.msgpack", snap.Frame)
	if snap.Bookmark != nil {
		filename = fmt.Sprintf("snapshot_%d_%s.msgpack", snap.Frame, snap.Bookmark.Type)
	}
	path := filepath.Join(dir, filename)

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version mismatch: got %d, want %d", snap.Version, SnapshotVersion)
	}
	n := snap.N * snap.N
	if len(snap.Height) != n || len(snap.Displacement) != 2*n || len(snap.Normal) != 3*n {
		return nil, fmt.Errorf("snapshot %s: field lengths do not match N=%d", path, snap.N)
	}
	return &snap, nil
}
