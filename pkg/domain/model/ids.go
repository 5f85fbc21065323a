package model

import (
	"encoding/json"
	"slices"
)

// IDList is a list of references to records of another collection.
// On decode it also accepts reference objects such as {"policy_id": "POL-001", "policy_name": "..."}.
type IDList []string

// referenceKeys are checked in order when a list element is an object
var referenceKeys = []string{"id", "control_id", "policy_id"}

// UnmarshalJSON decodes either a list of strings or a list of reference objects.
// Elements without a recognizable id are skipped.
func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}

	ids := make(IDList, 0, len(raw))
	for _, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			ids = append(ids, s)
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil {
			continue
		}
		for _, key := range referenceKeys {
			if id, ok := obj[key].(string); ok && id != "" {
				ids = append(ids, id)
				break
			}
		}
	}
	*l = ids
	return nil
}

// Contains reports whether id is referenced
func (l IDList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// Clone returns an independent copy
func (l IDList) Clone() IDList {
	return slices.Clone(l)
}
