package compare_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	vc "github.com/reoring/versionchain"
	"github.com/reoring/versionchain/codec"
	"github.com/reoring/versionchain/examples/person"

	sonic "github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// Each backend decodes strictly (unknown keys rejected). The raw backends have
// no required field check, so updated_at presence is checked by hand. The
// fastjson backend lives in bench_compare_fastjson_test.go.

type unmarshalFunc func(data []byte, v any) error

var errMissingUpdatedAt = errors.New("updated_at missing")

func rawDecoder[T any](unmarshal unmarshalFunc, stamped func(T) bool) vc.Decoder[T] {
	return vc.DecoderFunc[T](func(_ context.Context, payload []byte) (T, error) {
		var v T
		if err := unmarshal(payload, &v); err != nil {
			return v, err
		}
		if stamped != nil && !stamped(v) {
			return v, errMissingUpdatedAt
		}
		return v, nil
	})
}

func rawChain(tb testing.TB, unmarshal unmarshalFunc) *vc.TryChain[person.PersonV3] {
	tb.Helper()
	clock := person.FixedClock(time.Unix(0, 0))
	b := vc.Start(vc.V[person.PersonV1]("v1").DecodeWith(rawDecoder[person.PersonV1](unmarshal, nil)))
	b2 := vc.Then(b, vc.V[person.PersonV2]("v2").DecodeWith(rawDecoder(unmarshal, func(p person.PersonV2) bool {
		return !p.UpdatedAt.IsZero()
	})), person.V1ToV2(clock))
	c, err := vc.ThenTry(b2, vc.V[person.PersonV3]("v3").DecodeWith(rawDecoder(unmarshal, func(p person.PersonV3) bool {
		return !p.UpdatedAt.IsZero()
	})), person.V2ToV3, person.EmbedStepError).Build()
	if err != nil {
		tb.Fatalf("chain build failed: %v", err)
	}
	return c
}

func stdStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func gojsonStrict(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var (
	jsoniterStrict = jsoniter.Config{DisallowUnknownFields: true}.Froze()
	sonicStrict    = sonic.Config{DisallowUnknownFields: true}.Froze()
)

func v1Payload() []byte { return []byte(`{"name":"alice","title":"engineer"}`) }

func v3Payload() []byte {
	return []byte(`{"name":"alice","job_title":"engineer","updated_at":"2024-01-01T00:00:00Z"}`)
}

func backends(tb testing.TB) map[string]*vc.TryChain[person.PersonV3] {
	tb.Helper()
	codecChain, err := person.NewTryChain(person.FixedClock(time.Unix(0, 0)), vc.ChainOpt{Format: codec.JSON()})
	if err != nil {
		tb.Fatalf("chain build failed: %v", err)
	}
	return map[string]*vc.TryChain[person.PersonV3]{
		"codec":    codecChain,
		"std":      rawChain(tb, stdStrict),
		"gojson":   rawChain(tb, gojsonStrict),
		"jsoniter": rawChain(tb, jsoniterStrict.Unmarshal),
		"sonic":    rawChain(tb, sonicStrict.Unmarshal),
		"fastjson": fastjsonChain(tb),
	}
}

func TestBackends_Agree(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		for _, payload := range [][]byte{v1Payload(), v3Payload()} {
			got, err := c.TryMigrate(ctx, payload)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if got.Name != "alice" || got.JobTitle != "engineer" {
				t.Fatalf("%s: unexpected value %+v", name, got)
			}
		}
		res, err := c.Resolve(ctx, v1Payload())
		if err != nil || res.Version != "v1" {
			t.Fatalf("%s: v1 payload resolved as %+v (%v)", name, res, err)
		}
	}
}

func Benchmark_Migrate_Backends(b *testing.B) {
	ctx := context.Background()
	for name, c := range backends(b) {
		for _, tc := range []struct {
			label   string
			payload []byte
		}{{"v1", v1Payload()}, {"v3", v3Payload()}} {
			b.Run(name+"/"+tc.label, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(tc.payload)))
				for i := 0; i < b.N; i++ {
					if _, err := c.TryMigrate(ctx, tc.payload); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
