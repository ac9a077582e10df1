package unicode

import "testing"

func TestScan_CleanSource(t *testing.T) {
	src := "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n"
	if findings := Scan(src); len(findings) != 0 {
		t.Errorf("expected no findings for plain ASCII source, got %v", findings)
	}
}

func TestScan_ZeroWidth(t *testing.T) {
	src := "fmt.Pri​ntln(x)"
	findings := Scan(src)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Category != "zero-width" || !f.Critical {
		t.Errorf("unexpected finding: %+v", f)
	}
	if f.Codepoint != "U+200B" {
		t.Errorf("expected U+200B, got %s", f.Codepoint)
	}
}

func TestScan_BidiOverride(t *testing.T) {
	// The classic trojan-source shape: RLO flips display order.
	src := "// check if access granted ‮ // only admins"
	findings := Scan(src)
	if len(findings) != 1 || findings[0].Category != "bidi-control" {
		t.Fatalf("expected a bidi-control finding, got %v", findings)
	}
	if !findings[0].Critical {
		t.Error("bidi-control must be critical")
	}
}

func TestScan_Homoglyph(t *testing.T) {
	src := "vаlue := 1" // Cyrillic а
	findings := Scan(src)
	if len(findings) != 1 || findings[0].Category != "homoglyph" {
		t.Fatalf("expected a homoglyph finding, got %v", findings)
	}
	if findings[0].Critical {
		t.Error("homoglyphs report, they do not veto")
	}
}

func TestScan_ControlChars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"tab newline ok", "a\tb\nc\r\n", 0},
		{"escape char", "a\x1bb", 1},
		{"del char", "a\x7fb", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Scan(tt.src)); got != tt.want {
				t.Errorf("expected %d findings, got %d", tt.want, got)
			}
		})
	}
}

func TestScan_InvalidUTF8(t *testing.T) {
	src := "abc" + string([]byte{0xFF}) + "def"
	findings := Scan(src)
	if len(findings) != 1 || findings[0].Category != "invalid-utf8" {
		t.Fatalf("expected invalid-utf8 finding, got %v", findings)
	}
}
