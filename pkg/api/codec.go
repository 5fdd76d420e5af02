package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec encodes plain Go structs. Connect's built-in JSON codec only
// accepts protobuf messages.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero
// message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
