package codec

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	vc "github.com/reoring/versionchain"
	"github.com/reoring/versionchain/i18n"
)

// DecodeOpt bundles strict decoding options. The zero value is the strictest
// policy: unknown keys, duplicate keys and missing required fields all fail
// the decode attempt.
type DecodeOpt struct {
	Unknown    vc.UnknownPolicy
	Strictness vc.Strictness
	Required   vc.RequiredPolicy
	// MaxBytes rejects larger payloads when > 0.
	MaxBytes int64
	// Sink receives non-fatal issues (duplicate keys under Warn).
	Sink func(vc.Issue)
}

// Format is a versionchain.Format that can also encode values.
type Format interface {
	vc.Format
	Marshal(v any) ([]byte, error)
}

// For returns a Decoder[T] backed by f. It is shorthand for
// versionchain.FormatDecoder.
func For[T any](f vc.Format) vc.Decoder[T] { return vc.FormatDecoder[T](f) }

// driver is the per-library part of a Format.
type driver interface {
	name() string
	// tag is the struct tag consulted for key names.
	tag() string
	// foldCase reports whether the library binds keys case-insensitively.
	foldCase() bool
	decode(payload []byte, v any, strictUnknown bool) error
	decodeMap(payload []byte) (map[string]any, error)
	duplicates(payload []byte, s vc.Strictness) vc.Issues
	classify(err error) vc.Issues
	marshal(v any) ([]byte, error)
}

type format struct {
	d   driver
	opt DecodeOpt
}

func newFormat(d driver, opts []DecodeOpt) *format {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &format{d: d, opt: opt}
}

func (f *format) Name() string                  { return f.d.name() }
func (f *format) Marshal(v any) ([]byte, error) { return f.d.marshal(v) }

// Unmarshal decodes payload into v applying the size cap, the duplicate key
// policy, the unknown key policy and the required field policy, in that order.
func (f *format) Unmarshal(payload []byte, v any) error {
	if f.opt.MaxBytes > 0 && int64(len(payload)) > f.opt.MaxBytes {
		return issue("/", vc.CodeTruncated, nil)
	}
	if dup := f.d.duplicates(payload, f.opt.Strictness); len(dup) > 0 {
		if f.opt.Strictness.OnDuplicateKey == vc.Error {
			return dup
		}
		if f.opt.Sink != nil {
			for _, it := range dup {
				f.opt.Sink(it)
			}
		}
	}
	if err := f.d.decode(payload, v, f.opt.Unknown == vc.UnknownStrict); err != nil {
		if iss, ok := vc.AsIssues(err); ok {
			return iss
		}
		return f.d.classify(err)
	}
	if f.opt.Required == vc.RequiredStrict {
		return f.checkRequired(payload, v)
	}
	return nil
}

func (f *format) checkRequired(payload []byte, v any) error {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	doc, err := f.d.decodeMap(payload)
	if err != nil {
		// The typed decode already accepted the payload; a payload that is not
		// a map has nothing to check.
		return nil
	}
	missing := vc.MissingFields(t, doc, f.d.tag(), f.d.foldCase())
	if len(missing) == 0 {
		return nil
	}
	var iss vc.Issues
	for _, p := range missing {
		iss = vc.AppendIssues(iss, vc.Issue{Path: p, Code: vc.CodeRequired, Message: i18n.T(vc.CodeRequired, nil)})
	}
	return iss
}

func issue(path, code string, cause error) vc.Issues {
	return vc.AppendIssues(nil, vc.Issue{Path: path, Code: code, Message: i18n.T(code, nil), Cause: cause})
}

// quotedAfter extracts the quoted or bare word following marker in msg.
func quotedAfter(msg, marker string) string {
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(msg[i+len(marker):])
	if rest == "" {
		return ""
	}
	if rest[0] == '"' {
		if j := strings.IndexByte(rest[1:], '"'); j >= 0 {
			return rest[1 : j+1]
		}
	}
	if j := strings.IndexAny(rest, " ,:"); j >= 0 {
		return rest[:j]
	}
	return rest
}

var registry = map[string]func(...DecodeOpt) Format{
	"json":    JSON,
	"yaml":    YAML,
	"toml":    TOML,
	"msgpack": MsgPack,
}

// ByName returns the format registered under name ("json", "yaml", "toml",
// "msgpack"; "yml" is accepted for yaml).
func ByName(name string, opts ...DecodeOpt) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "yml" {
		n = "yaml"
	}
	ctor, ok := registry[n]
	if !ok {
		return nil, fmt.Errorf("codec: unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(opts...), nil
}

// Names lists the registered format names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
