package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/rs/zerolog/log"
)

// Exporter publishes analytics results as dated JSON objects.
type Exporter struct {
	store  ObjectStorage
	prefix string
}

func NewExporter(store ObjectStorage, prefix string) *Exporter {
	return &Exporter{store: store, prefix: prefix}
}

// ExportJSON uploads v under <prefix>/<date>/<name>.json and returns the key.
func (e *Exporter) ExportJSON(ctx context.Context, name string, v any) (string, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s export: %w", name, err)
	}

	key := path.Join(e.prefix, time.Now().UTC().Format("2006-01-02"), name+".json")
	if err := e.store.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}

	log.Info().Str("key", key).Int("bytes", len(payload)).Msg("export uploaded")
	return key, nil
}
