package codec

import (
	"bytes"
	"errors"
	"strings"

	"github.com/BurntSushi/toml"

	vc "github.com/reoring/versionchain"
	eng "github.com/reoring/versionchain/internal/engine"
)

// TOML returns a strict TOML Format backed by BurntSushi/toml. Keys left
// undecoded by the target type are reported as unknown keys. TOML has no
// duplicate key leniency: the parser always rejects them.
func TOML(opts ...DecodeOpt) Format { return newFormat(tomlDriver{}, opts) }

type tomlDriver struct{}

func (tomlDriver) name() string   { return "toml" }
func (tomlDriver) tag() string    { return "toml" }
func (tomlDriver) foldCase() bool { return true }

func (tomlDriver) decode(payload []byte, v any, strictUnknown bool) error {
	md, err := toml.NewDecoder(bytes.NewReader(payload)).Decode(v)
	if err != nil {
		return err
	}
	if !strictUnknown {
		return nil
	}
	var iss vc.Issues
	for _, k := range md.Undecoded() {
		path := ""
		for _, part := range k {
			path = eng.JoinPointer(path, part)
		}
		iss = vc.AppendIssues(iss, issue(path, vc.CodeUnknownKey, nil)...)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (tomlDriver) decodeMap(payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (tomlDriver) duplicates([]byte, vc.Strictness) vc.Issues { return nil }

func (tomlDriver) classify(err error) vc.Issues {
	var pe toml.ParseError
	if errors.As(err, &pe) {
		if strings.Contains(pe.Message, "already") {
			return issue("/", vc.CodeDuplicateKey, err)
		}
		return issue("/", vc.CodeParseError, err)
	}
	return issue("/", vc.CodeInvalidType, err)
}

func (tomlDriver) marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
