package hub

import (
	"encoding/json"
	"fmt"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v3"
)

// Codec serializes a whole collection to the blob stored under its key.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec.
type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAMLCodec stores blobs as YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Name() string                       { return "yaml" }
func (YAMLCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// MsgpackCodec stores blobs as MessagePack. Struct fields follow their json tags.
type MsgpackCodec struct {
	handle *codec.MsgpackHandle
}

func NewMsgpackCodec() *MsgpackCodec {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return &MsgpackCodec{handle: h}
}

func (c *MsgpackCodec) Name() string { return "msgpack" }

func (c *MsgpackCodec) Marshal(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MsgpackCodec) Unmarshal(data []byte, v any) error {
	return codec.NewDecoderBytes(data, c.handle).Decode(v)
}

// CodecByName returns the codec configured by name. An empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml":
		return YAMLCodec{}, nil
	case "msgpack":
		return NewMsgpackCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %q", name)
	}
}
