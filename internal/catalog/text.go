package catalog

import (
	"bytes"
	"encoding/json"
)

// Text is an optional piece of prose. It is either present with non-empty
// content or absent; there is no third "empty but present" state.
type Text struct {
	value   string
	present bool
}

// Present wraps value. An empty value yields an absent Text.
func Present(value string) Text {
	if value == "" {
		return Text{}
	}
	return Text{value: value, present: true}
}

// Absent returns the empty Text.
func Absent() Text {
	return Text{}
}

// Get returns the content and whether it is present.
func (t Text) Get() (string, bool) {
	return t.value, t.present
}

// IsPresent reports whether the text carries content.
func (t Text) IsPresent() bool {
	return t.present
}

// Or returns the content or fallback when absent.
func (t Text) Or(fallback string) string {
	if !t.present {
		return fallback
	}
	return t.value
}

// UnmarshalJSON accepts a JSON string or null. Null and "" decode to absent.
func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Absent()
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*t = Present(value)
	return nil
}

// MarshalJSON writes null for absent text.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}
