package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/v1/admin/verify":          "/v1/admin/verify",
		"/v1/admin/users":           "/v1/admin/users",
		"/v1/admin/users?limit=10":  "/v1/admin/users",
		"/v1/admin/licenses":        "/v1/admin/licenses",
		"/v1/admin/users/abc/extra": "/other",
		"/static/app.js":            "/other",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
