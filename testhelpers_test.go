package mcp_test

import (
	"encoding/json"
	"math/rand"
)

// generateRandomJSON builds a JSON object whose marshalled size is approximately size bytes,
// padded with a filler string field so large-payload transport tests exercise realistic data
// instead of failing on unmarshalling.
func generateRandomJSON(size int) json.RawMessage {
	const fillerChar = "a"

	filler := make([]byte, 0, size)
	for len(filler) < size {
		filler = append(filler, fillerChar...)
	}

	payload := struct {
		Filler string `json:"filler"`
		Seed   int    `json:"seed"`
	}{
		Filler: string(filler),
		Seed:   rand.Int(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	return raw
}
