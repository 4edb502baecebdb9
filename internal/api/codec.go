// Package api defines the paperless-mirror gRPC contract: JSON messages,
// the service descriptor and a typed client.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

// Codec marshals messages as JSON on the gRPC wire.
type Codec struct{}

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes data into v.
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the content-subtype.
func (Codec) Name() string { return CodecName }

func init() { encoding.RegisterCodec(Codec{}) }
