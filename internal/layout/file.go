package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadFile loads a payload written by the host, typically the workspace
// nets json that accompanies every push.
func ReadFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal decodes a JSON object into a payload. Anything other than an
// object is rejected.
func Unmarshal(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("layout: decode payload: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("layout: payload must be a JSON object")
	}
	return p, nil
}
