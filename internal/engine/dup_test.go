package engine

import "testing"

func TestDetectJSONDuplicateKeys_Paths(t *testing.T) {
	js := []byte(`{"a":{"b":1,"b":2},"c":[{"d":1},{"d":1,"d":2}]}`)
	iss, err := DetectJSONDuplicateKeysBytes(js, DupWarn, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(iss), iss)
	}
	if iss[0].Path != "/a/b" || iss[0].Code != "duplicate_key" {
		t.Fatalf("unexpected first issue: %+v", iss[0])
	}
	if iss[1].Path != "/c/1/d" {
		t.Fatalf("unexpected second issue path: %q", iss[1].Path)
	}
}

func TestDetectJSONDuplicateKeys_ErrorStopsAtFirst(t *testing.T) {
	js := []byte(`{"a":1,"a":2,"b":1,"b":2}`)
	iss, _ := DetectJSONDuplicateKeysBytes(js, DupError, -1)
	if len(iss) != 1 {
		t.Fatalf("expected fail-fast single issue, got %v", iss)
	}
}

func TestDetectJSONDuplicateKeys_IgnoreAndDisabled(t *testing.T) {
	js := []byte(`{"a":1,"a":2}`)
	if iss, _ := DetectJSONDuplicateKeysBytes(js, DupIgnore, -1); len(iss) != 0 {
		t.Fatalf("ignore should report nothing, got %v", iss)
	}
	if iss, _ := DetectJSONDuplicateKeysBytes(js, DupWarn, 0); len(iss) != 0 {
		t.Fatalf("maxIssues=0 should report nothing, got %v", iss)
	}
}

func TestDetectJSONDuplicateKeys_SyntaxErrorIsNotReported(t *testing.T) {
	iss, err := DetectJSONDuplicateKeysBytes([]byte(`{"a":`), DupError, -1)
	if err != nil || len(iss) != 0 {
		t.Fatalf("expected no issues and no error, got %v %v", iss, err)
	}
}

func TestDetectYAMLDuplicateKeys(t *testing.T) {
	y := []byte("name: a\nmeta:\n  x: 1\n  x: 2\n")
	iss, err := DetectYAMLDuplicateKeysBytes(y, DupError, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 1 || iss[0].Path != "/meta/x" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestJoinPointer_Escapes(t *testing.T) {
	if got := JoinPointer("", "a/b~c"); got != "/a~1b~0c" {
		t.Fatalf("got %q", got)
	}
	if got := JoinPointer("/", "x"); got != "/x" {
		t.Fatalf("got %q", got)
	}
}
