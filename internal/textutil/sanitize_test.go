package textutil

import "testing"

func TestSanitizeFolderName(t *testing.T) {
	cases := []struct {
		in       string
		fallback string
		windows  bool
		want     string
	}{
		{"Poku Short 30s", "project", false, "Poku_Short_30s"},
		{"  hero/../villain ", "asset", false, "hero..villain"},
		{"***", "asset", false, "asset"},
		{"", "project", false, "project"},
		{"con", "asset", true, "con_"},
		{"name...", "asset", true, "name"},
		{"name...", "asset", false, "name..."},
	}
	for _, tc := range cases {
		if got := sanitizeFolderName(tc.in, tc.fallback, tc.windows); got != tc.want {
			t.Fatalf("sanitizeFolderName(%q, windows=%v) = %q, want %q", tc.in, tc.windows, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(" /Projects/AN_DMO/05_WORK "); got != "projects_an_dmo_05_work" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := SanitizeToken("   "); got != "unknown" {
		t.Fatalf("expected unknown for blank input, got %q", got)
	}
}
