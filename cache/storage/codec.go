package storage

import (
	"encoding/json"
	"errors"
	"time"
)

// wireEntry is the serialized shape used by the file and session
// stores: a plain JSON object with millisecond timestamps and no
// version field. If the shape ever changes, old entries must fail to
// decode and be treated as corrupt, not migrated.
type wireEntry struct {
	Key       string `json:"key"`
	Data      any    `json:"data"`
	CreatedAt int64  `json:"createdAt"`
	TTL       int64  `json:"ttl"`
}

var errCorruptEntry = errors.New("storage: corrupt entry")

func encodeEntry(e Entry) ([]byte, error) {
	return json.Marshal(wireEntry{
		Key:       e.Key,
		Data:      e.Data,
		CreatedAt: e.CreatedAt.UnixMilli(),
		TTL:       e.TTL.Milliseconds(),
	})
}

// decodeEntry rejects anything that does not parse as a wireEntry.
// Callers treat the error as corruption: the entry is deleted and the
// lookup reported as a miss.
func decodeEntry(b []byte) (Entry, error) {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return Entry{}, errCorruptEntry
	}
	if w.Key == "" || w.CreatedAt == 0 {
		return Entry{}, errCorruptEntry
	}
	return Entry{
		Key:       w.Key,
		Data:      w.Data,
		CreatedAt: time.UnixMilli(w.CreatedAt),
		TTL:       time.Duration(w.TTL) * time.Millisecond,
	}, nil
}
