package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/model"
)

// ErrMalformedSnapshot indicates the document matched neither schema
// variant. Processing of that snapshot aborts; there is no partial output.
var ErrMalformedSnapshot = errors.New("snapshot matches no known schema")

// Loader parses raw snapshot documents into the normalized representation
type Loader struct {
	adapters []Adapter
	log      zerolog.Logger
}

// NewLoader creates a loader with the built-in schema adapters.
// Adapters are probed in registration order; first match wins.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		adapters: []Adapter{
			NewCurrentAdapter(),
			NewLegacyAdapter(),
		},
		log: log,
	}
}

// Parse normalizes one raw snapshot document
func (l *Loader) Parse(data []byte) (*model.Snapshot, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	for _, adapter := range l.adapters {
		if !adapter.CanHandle(&doc) {
			continue
		}
		snapshot := adapter.Normalize(&doc)
		l.log.Debug().
			Str("variant", adapter.Name()).
			Int("tournaments", len(snapshot.Tournaments)).
			Int("timelines", len(snapshot.Timelines)).
			Msg("snapshot normalized")
		return snapshot, nil
	}

	return nil, ErrMalformedSnapshot
}

// LoadFile reads and normalizes a snapshot file
func (l *Loader) LoadFile(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return l.Parse(data)
}
