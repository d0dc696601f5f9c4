package twilio

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestComputeSignature_Deterministic(t *testing.T) {
	t.Parallel()
	params := url.Values{}
	params.Set("Body", "hi")
	params.Set("From", "whatsapp:+15551234567")

	first := ComputeSignature("token", "https://bridge.example/whatsapp/receive", params)
	second := ComputeSignature("token", "https://bridge.example/whatsapp/receive", params)
	if first == "" {
		t.Fatal("ComputeSignature() returned empty string")
	}
	if first != second {
		t.Fatalf("ComputeSignature() not deterministic: %q vs %q", first, second)
	}
}

func TestComputeSignature_EveryInputMatters(t *testing.T) {
	t.Parallel()
	params := url.Values{}
	params.Set("Body", "hi")
	base := ComputeSignature("token", "https://bridge.example/hook", params)

	altToken := ComputeSignature("other-token", "https://bridge.example/hook", params)
	if altToken == base {
		t.Fatal("signature unchanged when auth token changed")
	}
	altURL := ComputeSignature("token", "https://bridge.example/other", params)
	if altURL == base {
		t.Fatal("signature unchanged when URL changed")
	}
	altParams := url.Values{}
	altParams.Set("Body", "hi!")
	if got := ComputeSignature("token", "https://bridge.example/hook", altParams); got == base {
		t.Fatal("signature unchanged when form body changed")
	}
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()
	params := url.Values{}
	params.Set("Body", "hi")
	good := ComputeSignature("token", "https://bridge.example/hook", params)

	if !VerifySignature("token", good, "https://bridge.example/hook", params) {
		t.Fatal("VerifySignature() rejected a valid signature")
	}
	if VerifySignature("token", "bogus", "https://bridge.example/hook", params) {
		t.Fatal("VerifySignature() accepted a forged signature")
	}
	if VerifySignature("token", "", "https://bridge.example/hook", params) {
		t.Fatal("VerifySignature() accepted an empty signature")
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		override string
		proto    string
		want     string
	}{
		{name: "override wins", override: "https://public.example/hook", proto: "https", want: "https://public.example/hook"},
		{name: "forwarded proto", proto: "https", want: "https://bridge.example/whatsapp/receive?x=1"},
		{name: "no proxy header", want: "http://bridge.example/whatsapp/receive?x=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/whatsapp/receive?x=1", nil)
			r.Host = "bridge.example"
			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if got := CanonicalURL(r, tt.override); got != tt.want {
				t.Fatalf("CanonicalURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
