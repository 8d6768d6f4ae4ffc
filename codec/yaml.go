package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	vc "github.com/reoring/versionchain"
	eng "github.com/reoring/versionchain/internal/engine"
)

// YAML returns a strict YAML Format backed by gopkg.in/yaml.v3. yaml.v3
// always rejects duplicate mapping keys while decoding; Strictness only
// controls whether the positions are reported up front.
func YAML(opts ...DecodeOpt) Format { return newFormat(yamlDriver{}, opts) }

type yamlDriver struct{}

func (yamlDriver) name() string   { return "yaml" }
func (yamlDriver) tag() string    { return "yaml" }
func (yamlDriver) foldCase() bool { return false }

var errEmptyDocument = errors.New("yaml: empty document")

func (yamlDriver) decode(payload []byte, v any, strictUnknown bool) error {
	dec := yaml.NewDecoder(bytes.NewReader(payload))
	dec.KnownFields(strictUnknown)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return issue("/", vc.CodeParseError, errEmptyDocument)
		}
		return err
	}
	return nil
}

func (yamlDriver) decodeMap(payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (yamlDriver) duplicates(payload []byte, s vc.Strictness) vc.Issues {
	return vc.DetectYAMLDuplicateKeysBytes(payload, s, -1)
}

func (yamlDriver) classify(err error) vc.Issues {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return issue("/", vc.CodeParseError, err)
	}
	var iss vc.Issues
	for _, msg := range te.Errors {
		cause := errors.New(msg)
		switch {
		case strings.Contains(msg, "not found in type"):
			iss = append(iss, issue(eng.JoinPointer("", quotedAfter(msg, "field")), vc.CodeUnknownKey, cause)...)
		case strings.Contains(msg, "already defined"):
			iss = append(iss, issue("/", vc.CodeDuplicateKey, cause)...)
		default:
			iss = append(iss, issue("/", vc.CodeInvalidType, cause)...)
		}
	}
	if len(iss) == 0 {
		return issue("/", vc.CodeInvalidType, err)
	}
	return iss
}

func (yamlDriver) marshal(v any) ([]byte, error) { return yaml.Marshal(v) }
