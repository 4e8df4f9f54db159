package catalog

import (
	"encoding/json"
	"errors"
	"io"
)

// Payload is the catalog service wire format
type Payload struct {
	Families []Family `json:"families"`
}

// Decode parses a catalog payload. Malformed JSON or a payload without a
// families list yields a *DataError; record-level checks happen in Build.
func Decode(r io.Reader) ([]Family, error) {
	var raw struct {
		Families *[]Family `json:"families"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &DataError{Index: -1, Err: err}
	}
	if raw.Families == nil {
		return nil, &DataError{Index: -1, Err: errors.New("payload has no families list")}
	}
	return *raw.Families, nil
}
