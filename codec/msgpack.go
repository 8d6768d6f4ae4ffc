package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	vc "github.com/reoring/versionchain"
	eng "github.com/reoring/versionchain/internal/engine"
)

// MsgPack returns a strict MessagePack Format backed by vmihailenco/msgpack.
// Struct keys come from the msgpack tag. MessagePack maps with repeated keys
// are decoded last-wins; no duplicate detection is performed.
func MsgPack(opts ...DecodeOpt) Format { return newFormat(msgpackDriver{}, opts) }

type msgpackDriver struct{}

func (msgpackDriver) name() string   { return "msgpack" }
func (msgpackDriver) tag() string    { return "msgpack" }
func (msgpackDriver) foldCase() bool { return false }

func (msgpackDriver) decode(payload []byte, v any, strictUnknown bool) error {
	r := bytes.NewReader(payload)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(strictUnknown)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if r.Len() > 0 {
		return issue("/", vc.CodeParseError, errors.New("msgpack: trailing data after top-level value"))
	}
	return nil
}

func (msgpackDriver) decodeMap(payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (msgpackDriver) duplicates([]byte, vc.Strictness) vc.Issues { return nil }

func (msgpackDriver) classify(err error) vc.Issues {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unknown field"):
		return issue(eng.JoinPointer("", quotedAfter(msg, "unknown field")), vc.CodeUnknownKey, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return issue("/", vc.CodeParseError, err)
	default:
		return issue("/", vc.CodeInvalidType, err)
	}
}

func (msgpackDriver) marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }
