package policy

import (
	"net/http/httptest"
	"testing"

	"github.com/ent0n29/muxd/internal/cmdq"
)

func cmd(name string) *cmdq.Command {
	return &cmdq.Command{Entry: &cmdq.Entry{Name: name}}
}

func TestMutatingClassification(t *testing.T) {
	if !Mutating(cmd("kill-session")) {
		t.Fatalf("Mutating(kill-session) = false, want true")
	}
	if Mutating(cmd("echo")) {
		t.Fatalf("Mutating(echo) = true, want false")
	}
}

func TestAnyMutating(t *testing.T) {
	readOnly := cmdq.NewList(cmd("echo"), cmd("list-sessions"))
	if AnyMutating(readOnly) {
		t.Fatalf("AnyMutating(read-only list) = true, want false")
	}
	mixed := cmdq.NewList(cmd("echo"), cmd("new-session"))
	if !AnyMutating(mixed) {
		t.Fatalf("AnyMutating(mixed list) = false, want true")
	}
}

func TestAuthorizeEmptyTokenAllowsAll(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if !Authorize(r, "") {
		t.Fatalf("Authorize() = false with no token configured, want true")
	}
}

func TestAuthorizeBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if Authorize(r, "secret") {
		t.Fatalf("Authorize() = true with missing header, want false")
	}

	r.Header.Set("Authorization", "Bearer secret")
	if !Authorize(r, "secret") {
		t.Fatalf("Authorize() = false with matching token, want true")
	}

	r.Header.Set("Authorization", "Bearer wrong")
	if Authorize(r, "secret") {
		t.Fatalf("Authorize() = true with wrong token, want false")
	}

	r.Header.Set("Authorization", "Basic secret")
	if Authorize(r, "secret") {
		t.Fatalf("Authorize() = true with non-bearer scheme, want false")
	}
}
