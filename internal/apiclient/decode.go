package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one page of a list endpoint. Total is the server-reported item count, or the
// number of items when the server sent a bare array.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Total  *int            `json:"total"`
	Error  string          `json:"error"`
}

// decodeList accepts {status, data, total}, a bare array, or an empty body.
func decodeList[T any](raw []byte) (Page[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Page[T]{Items: []T{}}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page[T]{Items: []T{}}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return Page[T]{Items: items, Total: len(items)}, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Page[T]{Items: []T{}}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if env.Status != "" && env.Status != "success" {
			msg := env.Error
			if msg == "" {
				msg = env.Status
			}
			return Page[T]{Items: []T{}}, fmt.Errorf("%w: %s", ErrUpstreamStatus, msg)
		}
		data := bytes.TrimSpace(env.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return Page[T]{Items: []T{}}, nil
		}
		if data[0] != '[' {
			return Page[T]{Items: []T{}}, fmt.Errorf("%w: data is not a list", ErrMalformedResponse)
		}
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return Page[T]{Items: []T{}}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		total := len(items)
		if env.Total != nil && *env.Total > 0 {
			total = *env.Total
		}
		return Page[T]{Items: items, Total: total}, nil
	}
	return Page[T]{Items: []T{}}, fmt.Errorf("%w: unexpected body", ErrMalformedResponse)
}
