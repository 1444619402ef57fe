package schema

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped whenever the model encoding changes shape.
const SnapshotVersion = 1

type snapshot struct {
	Version int    `msgpack:"version"`
	Model   *Model `msgpack:"model"`
}

// EncodeSnapshot serializes a model to the versioned snapshot format.
// Snapshots let `generate` run against a previously inspected schema without
// a live database connection.
func EncodeSnapshot(m *Model) ([]byte, error) {
	b, err := msgpack.Marshal(&snapshot{Version: SnapshotVersion, Model: m})
	if err != nil {
		return nil, fmt.Errorf("schema: encoding snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot deserializes a snapshot produced by EncodeSnapshot.
func DecodeSnapshot(b []byte) (*Model, error) {
	var s snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("schema: decoding snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("schema: snapshot version %d not supported (want %d)", s.Version, SnapshotVersion)
	}
	if s.Model == nil {
		return nil, fmt.Errorf("schema: snapshot carries no model")
	}
	return s.Model, nil
}

// WriteSnapshotFile encodes the model and writes it to path.
func WriteSnapshotFile(path string, m *Model) error {
	b, err := EncodeSnapshot(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("schema: writing snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshotFile reads and decodes a snapshot file.
func ReadSnapshotFile(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: reading snapshot %s: %w", path, err)
	}
	return DecodeSnapshot(b)
}
