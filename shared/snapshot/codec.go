// Package snapshot stores parsed raw maps so later starts can skip TMX
// parsing. Snapshots are msgpack encoded behind a small version header.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"

	"github.com/automoto/oc-terrain/shared/mapstate"
)

// Version is the snapshot format written by Encode. Bump it whenever
// mapstate.RawMap or tileprops.RawTile change shape.
const Version byte = 1

var magic = []byte("OCTS")

// ErrVersion is returned for snapshots written by another format version.
var ErrVersion = errors.New("snapshot: unsupported format version")

// ErrCorrupt is returned for data that is not a snapshot at all.
var ErrCorrupt = errors.New("snapshot: corrupt data")

var handle = &codec.MsgpackHandle{}

// Encode serializes raw with the current format header.
func Encode(raw mapstate.RawMap) ([]byte, error) {
	out := make([]byte, 0, 64+len(raw.Cells)*8)
	out = append(out, magic...)
	out = append(out, Version)

	var body []byte
	if err := codec.NewEncoderBytes(&body, handle).Encode(raw); err != nil {
		return nil, fmt.Errorf("encode map %q: %w", raw.Name, err)
	}
	return append(out, body...), nil
}

// Decode parses data written by Encode.
func Decode(data []byte) (mapstate.RawMap, error) {
	if len(data) < len(magic)+1 || !bytes.Equal(data[:len(magic)], magic) {
		return mapstate.RawMap{}, ErrCorrupt
	}
	if v := data[len(magic)]; v != Version {
		return mapstate.RawMap{}, fmt.Errorf("%w: got %d, want %d", ErrVersion, v, Version)
	}

	var raw mapstate.RawMap
	if err := codec.NewDecoderBytes(data[len(magic)+1:], handle).Decode(&raw); err != nil {
		return mapstate.RawMap{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return raw, nil
}
