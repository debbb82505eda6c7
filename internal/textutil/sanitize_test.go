package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://myrient.erista.me/files/No-Intro/", "https___myrient.erista.me_files_No-Intro_"},
		{`a\b*c?d"e<f>g|h`, "a_b_c_d_e_f_g_h"},
		{"plain.txt", "plain.txt"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
