package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ComputeSignature builds the carrier's expected request signature: the
// canonical URL concatenated with every form parameter (sorted by name, each
// name immediately followed by its value), HMAC-SHA1 keyed by the auth token,
// base64-encoded. SHA-1 is Twilio's contract, not a choice made here.
func ComputeSignature(authToken, canonicalURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(canonicalURL)
	for _, key := range keys {
		for _, value := range params[key] {
			builder.WriteString(key)
			builder.WriteString(value)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(builder.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the supplied signature matches the one the
// carrier would have computed for this URL and form body. Comparison is
// constant time. An empty signature never verifies.
func VerifySignature(authToken, signature, canonicalURL string, params url.Values) bool {
	if strings.TrimSpace(signature) == "" {
		return false
	}
	expected := ComputeSignature(authToken, canonicalURL, params)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// CanonicalURL reconstructs the URL the carrier signed: the configured
// override when set, otherwise scheme + host + original request URI. The
// host keeps any port, since the carrier signs the callback URL verbatim. The
// scheme honors X-Forwarded-Proto, so verification only holds behind a proxy
// that sets the header faithfully; deployments without one should configure
// validation_url explicitly.
func CanonicalURL(r *http.Request, override string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	scheme := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	return scheme + "://" + r.Host + r.RequestURI
}
