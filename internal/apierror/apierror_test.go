package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestMarshalFlattensContext(t *testing.T) {
	err := NotFound("chain 'atlantis' not found").
		With("available", []string{"Ethereum", "Solana"})

	raw, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("marshal failed: %v", marshalErr)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["error"] != "chain 'atlantis' not found" {
		t.Errorf("error field = %v", out["error"])
	}
	if _, ok := out["available"]; !ok {
		t.Error("context field must sit alongside the message")
	}
	if len(out) != 2 {
		t.Errorf("got %d fields, want error plus one context key: %v", len(out), out)
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		err          error
		wantNotFound bool
		wantUpstream bool
	}{
		{NotFound("missing"), true, false},
		{UpstreamStatus(502, "http://example.com"), false, true},
		{Upstream(errors.New("connection refused"), ""), false, true},
		{InvalidInput("bad request"), false, false},
		{errors.New("plain"), false, false},
		{nil, false, false},
	}

	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.wantNotFound {
			t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.wantNotFound)
		}
		if got := IsUpstream(tt.err); got != tt.wantUpstream {
			t.Errorf("IsUpstream(%v) = %v, want %v", tt.err, got, tt.wantUpstream)
		}
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("comparing chains: %w", NotFound("chain 'mu' not found"))

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindNotFound {
		t.Fatalf("KindOf = (%v, %v), want (KindNotFound, true)", kind, ok)
	}
	if !IsNotFound(wrapped) {
		t.Error("predicate must see through error wrapping")
	}
}

func TestUpstreamStatusMessage(t *testing.T) {
	err := UpstreamStatus(503, "http://example.com/v2/chains")
	if err.Error() != "HTTP 503" {
		t.Errorf("message = %q, want HTTP 503", err.Error())
	}
	if err.Context["url"] != "http://example.com/v2/chains" {
		t.Errorf("url context = %v", err.Context["url"])
	}
}

func TestWithChaining(t *testing.T) {
	err := InvalidInput("missing contract_types").
		With("field", "contract_types").
		With("hint", "provide a JSON array")

	if len(err.Context) != 2 {
		t.Fatalf("context = %v, want 2 fields", err.Context)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNotFound, "not_found"},
		{KindUpstreamUnavailable, "upstream_unavailable"},
		{KindInvalidInput, "invalid_input"},
		{KindDegradedResult, "degraded_result"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
