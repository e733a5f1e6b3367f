package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "two words", input: "Arsip Dasar", want: "arsip-dasar"},
		{name: "with year", input: "Laporan Keuangan 2023", want: "laporan-keuangan-2023"},
		{name: "slash separated", input: "Surat Keputusan / 2024", want: "surat-keputusan-2024"},
		{name: "underscore and dot", input: "internal_report.v2", want: "internal-report-v2"},
		{name: "document number", input: "201608-D482", want: "201608-d482"},
		{name: "punctuation stripped", input: "Dokumen (Kesehatan)!", want: "dokumen-kesehatan"},
		{name: "collapses whitespace", input: "  Berkas \t Kerja \n ", want: "berkas-kerja"},
		{name: "collapses hyphens", input: "a -- b", want: "a-b"},
		{name: "non-ascii dropped", input: "Café Ümlaut", want: "caf-mlaut"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!@#$%", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that slugging a slug changes nothing.
func TestGenerate_Idempotent(t *testing.T) {
	for _, in := range []string{"Arsip Internal", "Urusan Tenaga 2020", "a_b/c.d"} {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		label, ext, want string
	}{
		{"Backup Arsip YPIB 2026-10-18", ".json", "backup-arsip-ypib-2026-10-18.json"},
		{"Laporan", "PDF", "laporan.pdf"},
		{"", ".json", "file.json"},
		{"Tanpa Ekstensi", "", "tanpa-ekstensi"},
	}
	for _, tt := range tests {
		if got := Filename(tt.label, tt.ext); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.label, tt.ext, got, tt.want)
		}
	}
}
