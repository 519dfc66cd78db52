package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// YesNo decodes the attendee membership claim, which the public form sends as "yes"/"no"
type YesNo bool

// UnmarshalJSON accepts true/false and the strings "yes"/"no"/"true"/"false"
func (y *YesNo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*y = YesNo(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("isMember must be a boolean or \"yes\"/\"no\"")
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "oui":
		*y = true
	case "no", "false", "non", "":
		*y = false
	default:
		return fmt.Errorf("invalid isMember value: %q", s)
	}
	return nil
}
