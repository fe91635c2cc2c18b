package jmap

import (
	"encoding/json"
	"fmt"
)

// decodeResult decodes the result half of a method response tuple into
// the provided type. An "error" method name becomes a *JMAPError.
func decodeResult[T any](mr MethodResponse) (T, error) {
	var zero T

	if mr.Name() == "error" {
		return zero, parseMethodError(mr[1])
	}

	resultJSON, err := json.Marshal(mr[1])
	if err != nil {
		return zero, fmt.Errorf("marshaling method result: %w", err)
	}

	var result T
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return zero, fmt.Errorf("parsing %s result: %w", mr.Name(), err)
	}
	return result, nil
}

// getString reads a string value out of a decoded JSON object; missing
// keys and wrong types yield "".
func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func parseMethodError(payload any) error {
	if m, ok := payload.(map[string]any); ok {
		return &JMAPError{
			Type:        getString(m, "type"),
			Description: getString(m, "description"),
		}
	}
	return fmt.Errorf("JMAP error: %v", payload)
}

// expectResult locates a response by method name and decodes it,
// reporting a *ProtocolError when the name is absent from the batch.
func expectResult[T any](responses []MethodResponse, name string) (T, error) {
	var zero T
	mr, ok := findResponse(responses, name)
	if !ok {
		if errResp, isErr := findResponse(responses, "error"); isErr {
			return zero, parseMethodError(errResp[1])
		}
		got := ""
		if len(responses) > 0 {
			got = responses[0].Name()
		}
		return zero, &ProtocolError{Expected: name, Got: got}
	}
	return decodeResult[T](mr)
}
