package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	vc "github.com/reoring/versionchain"
	eng "github.com/reoring/versionchain/internal/engine"
)

// JSON returns a strict JSON Format backed by goccy/go-json.
func JSON(opts ...DecodeOpt) Format { return newFormat(jsonDriver{}, opts) }

type jsonDriver struct{}

func (jsonDriver) name() string   { return "json" }
func (jsonDriver) tag() string    { return "json" }
func (jsonDriver) foldCase() bool { return true }

func (jsonDriver) decode(payload []byte, v any, strictUnknown bool) error {
	dec := j.NewDecoder(bytes.NewReader(payload))
	if strictUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra j.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return issue("/", vc.CodeParseError, errors.New("json: trailing data after top-level value"))
	}
	return nil
}

func (jsonDriver) decodeMap(payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := j.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (jsonDriver) duplicates(payload []byte, s vc.Strictness) vc.Issues {
	return vc.DetectJSONDuplicateKeysBytes(payload, s, -1)
}

func (jsonDriver) classify(err error) vc.Issues {
	msg := err.Error()
	if strings.Contains(msg, "unknown field") {
		return issue(eng.JoinPointer("", quotedAfter(msg, "unknown field")), vc.CodeUnknownKey, err)
	}
	var te *j.UnmarshalTypeError
	if errors.As(err, &te) {
		path := "/"
		if te.Field != "" {
			path = "/" + strings.ReplaceAll(te.Field, ".", "/")
		}
		return issue(path, vc.CodeInvalidType, err)
	}
	return issue("/", vc.CodeParseError, err)
}

func (jsonDriver) marshal(v any) ([]byte, error) { return j.Marshal(v) }
