// ABOUTME: Tests for provider registration and lookup

package ai

import (
	"context"
	"testing"
)

type stubProvider struct{ api Api }

func (p *stubProvider) Api() Api { return p.api }

func (p *stubProvider) Complete(context.Context, *Model, *Context, *Options) (*AssistantMessage, error) {
	return &AssistantMessage{}, nil
}

func TestRegisterAndGetProvider(t *testing.T) {
	const api = Api("test-api")
	var gotBaseURL string
	RegisterProvider(api, func(baseURL string) Provider {
		gotBaseURL = baseURL
		return &stubProvider{api: api}
	})

	p := GetProvider(api, "https://example.test")
	if p == nil {
		t.Fatal("GetProvider returned nil for a registered api")
	}
	if p.Api() != api {
		t.Errorf("Api() = %q", p.Api())
	}
	if gotBaseURL != "https://example.test" {
		t.Errorf("factory base URL = %q", gotBaseURL)
	}
	if !HasProvider(api) {
		t.Error("HasProvider = false for a registered api")
	}
}

func TestGetProviderUnregistered(t *testing.T) {
	if p := GetProvider(Api("nope"), ""); p != nil {
		t.Errorf("GetProvider for unregistered api = %v, want nil", p)
	}
	if HasProvider(Api("nope")) {
		t.Error("HasProvider = true for unregistered api")
	}
}
