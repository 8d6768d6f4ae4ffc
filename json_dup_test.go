package versionchain

import "testing"

func TestDetectJSONDuplicateKeysBytes_NoDup(t *testing.T) {
	js := []byte(`{"a":1,"b":2}`)
	iss := DetectJSONDuplicateKeysBytes(js, Strictness{OnDuplicateKey: Warn}, -1)
	if len(iss) != 0 {
		t.Fatalf("expected 0 issues, got %d: %v", len(iss), iss)
	}
}

func TestDetectJSONDuplicateKeysBytes_WithDup(t *testing.T) {
	js := []byte(`{"a":1,"a":2}`)
	iss := DetectJSONDuplicateKeysBytes(js, Strictness{OnDuplicateKey: Warn}, -1)
	if len(iss) == 0 {
		t.Fatalf("expected duplicate_key issue")
	}
	if iss[0].Code != CodeDuplicateKey || iss[0].Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %+v", iss[0])
	}
}

func TestDetectYAMLDuplicateKeysBytes_Ignore(t *testing.T) {
	iss := DetectYAMLDuplicateKeysBytes([]byte("a: 1\na: 2\n"), Strictness{OnDuplicateKey: Ignore}, -1)
	if len(iss) != 0 {
		t.Fatalf("expected no issues when ignoring, got %v", iss)
	}
}
