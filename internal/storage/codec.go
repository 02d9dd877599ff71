package storage

import "encoding/json"

// Ritual days-of-week lists are persisted as JSON text so both backends
// share one column shape.

func marshalDays(days []string) (string, error) {
	if len(days) == 0 {
		return "", nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalDays(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var days []string
	if err := json.Unmarshal([]byte(*raw), &days); err != nil {
		return nil, err
	}
	return days, nil
}
