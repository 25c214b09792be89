package qastore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/askbook/internal/domain/qa"
)

const snapshotVersion = 1

// Format is the encoding of a snapshot record file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type snapshot struct {
	Version int       `json:"version" yaml:"version"`
	Pairs   []qa.Pair `json:"pairs" yaml:"pairs"`
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON for anything else.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func encodeSnapshot(format Format, pairs []qa.Pair) ([]byte, error) {
	if pairs == nil {
		pairs = []qa.Pair{}
	}
	doc := snapshot{Version: snapshotVersion, Pairs: pairs}
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decodeSnapshot(format Format, data []byte) ([]qa.Pair, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []qa.Pair{}, nil
	}
	var doc snapshot
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", format, err)
	}
	if doc.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", doc.Version, snapshotVersion)
	}
	if doc.Pairs == nil {
		return []qa.Pair{}, nil
	}
	return doc.Pairs, nil
}
