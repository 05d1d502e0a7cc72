// internal/defs/loader.go
package defs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrInvalidCatalog is returned when event definitions break catalog rules.
var ErrInvalidCatalog = errors.New("invalid event catalog")

// LoadEventCatalog reads the event configuration file and builds a validated catalog.
func LoadEventCatalog(path string) (*EventCatalog, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event definitions file: %w", err)
	}

	catalog, err := ParseEventCatalog(file)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d event definitions from %s", catalog.Len(), path)
	return catalog, nil
}

// ParseEventCatalog decodes a JSON array of event definitions.
func ParseEventCatalog(data []byte) (*EventCatalog, error) {
	var eventDefs []GlobalEventConfig
	if err := json.Unmarshal(data, &eventDefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event definitions: %w", err)
	}
	if len(eventDefs) == 0 {
		return nil, fmt.Errorf("%w: no definitions", ErrInvalidCatalog)
	}
	return NewEventCatalog(eventDefs)
}
