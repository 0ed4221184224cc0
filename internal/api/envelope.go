package api

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sira-console/internal/dto"
)

// Envelope is the decoded `{ok, error, ...payload}` wrapper every portal
// endpoint responds with. Payload fields stay raw until a caller asks for
// them, since the field name varies by endpoint (rows, courses, user, ...).
type Envelope struct {
	OK      bool
	Error   string
	payload map[string]json.RawMessage
}

func decodeEnvelope(body []byte) (*Envelope, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}

	env := &Envelope{payload: fields}
	if raw, ok := fields["ok"]; ok {
		_ = json.Unmarshal(raw, &env.OK)
	}
	if raw, ok := fields["error"]; ok {
		_ = json.Unmarshal(raw, &env.Error)
	}

	return env, true
}

// Decode unmarshals the named payload field into out.
func (e *Envelope) Decode(key string, out any) error {
	raw, ok := e.payload[key]
	if !ok {
		return fmt.Errorf("response has no %q field", key)
	}
	return json.Unmarshal(raw, out)
}

// Has reports whether the named payload field is present.
func (e *Envelope) Has(key string) bool {
	_, ok := e.payload[key]
	return ok
}

// Rows returns the collection payload, trying each of the given field names
// in order. Endpoints disagree on the field name ("rows" on newer ones,
// "courses" and friends on older ones), so loaders pass their candidates.
func (e *Envelope) Rows(keys ...string) ([]dto.Record, error) {
	if len(keys) == 0 {
		keys = []string{"rows"}
	}

	for _, key := range keys {
		raw, ok := e.payload[key]
		if !ok {
			continue
		}
		var rows []dto.Record
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		// single-object payloads (profile, user) render as a one-row table
		var one dto.Record
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		return []dto.Record{one}, nil
	}

	return nil, fmt.Errorf("response has none of the fields %v", keys)
}

// User returns the identity payload of /api/login and /api/me responses.
func (e *Envelope) User() (*dto.User, error) {
	var user dto.User
	if err := e.Decode("user", &user); err != nil {
		return nil, err
	}
	user.Role = dto.ParseRole(string(user.Role))
	return &user, nil
}
