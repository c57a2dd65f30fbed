package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrCorruptSnapshot is returned when a stored blob cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Format selects the snapshot encoding inside the compressed blob.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Blob header: one format byte before the lz4 frame.
const (
	tagJSON    byte = 'j'
	tagMsgpack byte = 'm'
)

// ParseFormat maps a config value to a Format. Unknown values are an error.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q", s)
}

// Codec turns snapshots into compressed blobs and back. Decode reads either
// format regardless of which one the codec writes.
type Codec struct {
	Format Format
}

// Encode serializes and compresses snap.
func (c Codec) Encode(snap *Snapshot) ([]byte, error) {
	var (
		raw []byte
		tag byte
		err error
	)
	switch c.Format {
	case FormatMsgpack:
		tag = tagMsgpack
		raw, err = encodeMsgpack(snap)
	default:
		tag = tagJSON
		raw, err = json.Marshal(snap)
	}
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteByte(tag)
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode decompresses and deserializes a blob written by Encode.
func (c Codec) Decode(blob []byte) (*Snapshot, error) {
	if len(blob) < 2 {
		return nil, ErrCorruptSnapshot
	}
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(blob[1:])))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorruptSnapshot, err)
	}

	snap := new(Snapshot)
	switch blob[0] {
	case tagJSON:
		err = json.Unmarshal(raw, snap)
	case tagMsgpack:
		err = decodeMsgpack(raw, snap)
	default:
		return nil, fmt.Errorf("%w: unknown format tag %q", ErrCorruptSnapshot, blob[0])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return snap, nil
}

// The msgpack codec reuses the json tags so both formats store the same keys.
func encodeMsgpack(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMsgpack(raw []byte, snap *Snapshot) error {
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.SetCustomStructTag("json")
	return dec.Decode(snap)
}
