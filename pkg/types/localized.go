package types

import (
	"database/sql/driver"
	"encoding/json"
)

// Localized holds a translated string keyed by language code (en, tr, de).
type Localized map[string]string

// Get returns the translation for lang, falling back to English.
func (l Localized) Get(lang string) string {
	if l == nil {
		return ""
	}
	if v, ok := l[lang]; ok && v != "" {
		return v
	}
	return l["en"]
}

// Value serializes the translations to JSON.
func (l Localized) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l)
}

// Scan decodes JSONB into the translation map.
func (l *Localized) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded Localized
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*l = decoded
	return nil
}

// LocalizedList holds translated string lists keyed by language code,
// used for product feature bullets.
type LocalizedList map[string][]string

// Get returns the list for lang, falling back to English.
func (l LocalizedList) Get(lang string) []string {
	if l == nil {
		return nil
	}
	if v, ok := l[lang]; ok && len(v) > 0 {
		return v
	}
	return l["en"]
}

// Value serializes the lists to JSON.
func (l LocalizedList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l)
}

// Scan decodes JSONB into the list map.
func (l *LocalizedList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded LocalizedList
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*l = decoded
	return nil
}
