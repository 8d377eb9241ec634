package authz

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ops", want: "role:ops"},
		{in: "role:ops", want: "role:ops"},
		{in: "  store manager ", want: "role:store_manager"},
		{in: "", wantErr: true},
		{in: "role:", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeRole(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeRole(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/api/v1":                   "/",
		"/api/v1/admin/orders":      "/admin/orders",
		"admin/orders":              "/admin/orders",
		"/admin/orders/:id":         "/admin/orders/:id",
		"/api/v1/admin/orders/:id":  "/admin/orders/:id",
		" /api/v1/admin/dashboard ": "/admin/dashboard",
	}
	for in, want := range cases {
		if got := NormalizeObject(in); got != want {
			t.Errorf("NormalizeObject(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeAction(t *testing.T) {
	if got := NormalizeAction(" get "); got != "GET" {
		t.Errorf("NormalizeAction = %q, want GET", got)
	}
}
