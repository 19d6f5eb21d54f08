// Package encoding turns stored records into compact blobs: msgpack
// serialization followed by block compression.
package encoding

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// Codec encodes values to compressed msgpack blobs and back.
type Codec struct {
	handle     *codec.MsgpackHandle
	compressor Compressor
}

// NewCodec returns a codec compressing with c
func NewCodec(c Compressor) *Codec {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	return &Codec{handle: h, compressor: c}
}

// Marshal encodes v
func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, c.handle).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}
	return c.compressor.Compress(raw)
}

// Unmarshal decodes blob into v
func (c *Codec) Unmarshal(blob []byte, v interface{}) error {
	raw, err := c.compressor.Decompress(blob)
	if err != nil {
		return err
	}
	if err := codec.NewDecoderBytes(raw, c.handle).Decode(v); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return nil
}
