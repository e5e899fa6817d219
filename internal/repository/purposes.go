package repository

import "encoding/json"

// DecodePurposes parses a stored purposes cell. The canonical form is a JSON
// array of strings, but legacy rows may hold a bare purpose string; those
// come back as a single-element list. Blank cells decode to an empty list.
func DecodePurposes(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []string{raw}
	}

	purposes := make([]string, 0, len(parsed))
	for _, purpose := range parsed {
		if purpose != "" {
			purposes = append(purposes, purpose)
		}
	}

	return purposes
}

// EncodePurposes serializes a purpose list to its stored JSON form.
func EncodePurposes(purposes []string) string {
	if purposes == nil {
		purposes = []string{}
	}

	encoded, err := json.Marshal(purposes)
	if err != nil {
		return "[]"
	}

	return string(encoded)
}
