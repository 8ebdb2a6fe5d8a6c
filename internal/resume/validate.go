package resume

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/snapshot.schema.json
var snapshotSchema string

var schemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

// ErrInvalidSnapshot is returned when imported JSON does not match the
// snapshot schema.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Validate checks raw JSON against the embedded snapshot schema.
func Validate(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
}

// Decode validates raw JSON and decodes it into a normalised snapshot.
func Decode(raw []byte) (Snapshot, error) {
	if err := Validate(raw); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}
