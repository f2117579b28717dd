package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is stamped on every blob this package writes.
const SchemaVersion = 1

// ErrCorrupt marks a stored blob that cannot be decoded.
var ErrCorrupt = errors.New("corrupt client state")

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// EncodeList wraps a slice in a versioned envelope.
func EncodeList(items any) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: raw})
}

// DecodeList reads a blob written by EncodeList into out (a pointer to a
// slice). Bare JSON arrays from before versioning are accepted as version 0.
// Empty and "null" blobs decode to nothing.
func DecodeList(data []byte, out any) error {
	data = bytes.TrimSpace(data)
	if isBlank(data) {
		return nil
	}
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil
	case '{':
		env, err := decodeEnvelope(data)
		if err != nil {
			return err
		}
		if isBlank(env.Items) {
			return nil
		}
		if err := json.Unmarshal(env.Items, out); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected leading byte %q", ErrCorrupt, data[0])
	}
}

// EncodeValue wraps a single value in a versioned envelope.
func EncodeValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, Value: raw})
}

// DecodeValue reads a blob written by EncodeValue. A bare object without a
// version field is read as version 0. It reports false for blank blobs.
func DecodeValue(data []byte, out any) (bool, error) {
	data = bytes.TrimSpace(data)
	if isBlank(data) {
		return false, nil
	}
	if data[0] != '{' {
		return false, fmt.Errorf("%w: unexpected leading byte %q", ErrCorrupt, data[0])
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	payload := data
	if _, versioned := probe["version"]; versioned {
		env, err := decodeEnvelope(data)
		if err != nil {
			return false, err
		}
		if isBlank(env.Value) {
			return false, nil
		}
		payload = env.Value
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return true, nil
}

func decodeEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version < 1 || env.Version > SchemaVersion {
		return envelope{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, env.Version)
	}
	return env, nil
}

// Older browsers occasionally stored the string "undefined".
func isBlank(data []byte) bool {
	s := string(bytes.TrimSpace(data))
	return s == "" || s == "null" || s == "undefined"
}
