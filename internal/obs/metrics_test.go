package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/signup":                       "/signup",
		"/organization":                 "/organization",
		"/organization/abc":             "/organization/:id",
		"/organization/abc/invite":      "/organization/:id/invite",
		"/organization/abc/extra":       "/organization/abc/extra",
		"/organization/abc?fields=name": "/organization/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
