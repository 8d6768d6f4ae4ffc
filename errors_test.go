package versionchain

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/versionchain/i18n"
)

func TestMigrationError_MessageByKind(t *testing.T) {
	defer i18n.SetLanguage("en")
	i18n.SetLanguage("en")

	nvm := &MigrationError{
		Kind:     KindNoVersionMatched,
		From:     "v1",
		Cause:    errors.New("bad payload"),
		Attempts: []AttemptError{{Index: 1, Version: "v2"}, {Index: 0, Version: "v1"}},
	}
	if got := nvm.Error(); !strings.Contains(got, "tried 2 versions") || !strings.Contains(got, `oldest "v1"`) || !strings.HasSuffix(got, ": bad payload") {
		t.Fatalf("unexpected message: %q", got)
	}

	cf := &MigrationError{Kind: KindConversionFailed, Step: 1, From: "v2", To: "v3", Cause: errors.New("nope")}
	if got := cf.Error(); !strings.Contains(got, "at step 1 (v2 -> v3)") || !strings.HasSuffix(got, ": nope") {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestMigrationError_IsAndEqual(t *testing.T) {
	a := &MigrationError{Kind: KindConversionFailed, Step: 0, From: "a", To: "b", Cause: errors.New("x")}
	b := &MigrationError{Kind: KindConversionFailed, Step: 0, From: "a", To: "b", Cause: errors.New("x")}
	c := &MigrationError{Kind: KindConversionFailed, Step: 0, From: "a", To: "b", Cause: errors.New("y")}
	if !a.Equal(b) || !errors.Is(a, b) {
		t.Fatalf("structurally equal errors must match")
	}
	if a.Equal(c) || errors.Is(a, c) {
		t.Fatalf("different causes must not match")
	}
	if !errors.Is(a, ErrConversionFailed) || errors.Is(a, ErrNoVersionMatched) {
		t.Fatalf("sentinel matching is by kind")
	}

	iss := Issues{{Path: "/a", Code: CodeUnknownKey}}
	d := &MigrationError{Kind: KindNoVersionMatched, From: "a", Cause: iss}
	e := &MigrationError{Kind: KindNoVersionMatched, From: "a", Cause: Issues{{Path: "/a", Code: CodeUnknownKey}}}
	if !d.Equal(e) {
		t.Fatalf("issue causes compare by message")
	}
	var nilErr *MigrationError
	if nilErr.Equal(a) || !nilErr.Equal(nil) {
		t.Fatalf("nil handling")
	}
}

func TestAsMigrationError_ThroughWrapping(t *testing.T) {
	me := &MigrationError{Kind: KindNoVersionMatched}
	wrapped := errors.Join(errors.New("context"), me)
	got, ok := AsMigrationError(wrapped)
	if !ok || got != me {
		t.Fatalf("want the wrapped MigrationError")
	}
	if _, ok := AsMigrationError(nil); ok {
		t.Fatalf("nil is not a MigrationError")
	}
}

func TestIssues_ErrorTruncates(t *testing.T) {
	iss := Issues{
		{Path: "/a", Code: CodeRequired},
		{Path: "/b", Code: CodeRequired, Message: "missing"},
		{Path: "/c", Code: CodeUnknownKey},
		{Path: "/d", Code: CodeUnknownKey},
	}
	got := iss.Error()
	want := "required at /a; required at /b (missing); unknown_key at /c; ... (total 4)"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if (Issues{}).Error() != "" {
		t.Fatalf("empty issues render empty")
	}
}

func TestErrorKind_Code(t *testing.T) {
	if KindNoVersionMatched.Code() != CodeNoVersionMatched || KindConversionFailed.String() != CodeConversionFailed {
		t.Fatalf("unexpected codes")
	}
	if ErrorKind(0).Code() != "unknown" {
		t.Fatalf("zero kind is unknown")
	}
}

func TestApplyValidate_PointerReceiver(t *testing.T) {
	if err := ApplyValidate(ptrValidated{}); err == nil {
		t.Fatalf("pointer receiver validator must run")
	}
	iss, _ := AsIssues(ApplyValidate(issueValidated{}))
	if len(iss) != 1 || iss[0].Code != CodeRequired {
		t.Fatalf("issues from Validate pass through, got %v", iss)
	}
	if err := ApplyValidate(42); err != nil {
		t.Fatalf("types without Validate always pass")
	}
}

type ptrValidated struct{}

func (*ptrValidated) Validate() error { return errors.New("always") }

type issueValidated struct{}

func (issueValidated) Validate() error {
	return Issues{{Path: "/x", Code: CodeRequired}}
}
