package syntax

import "testing"

func TestCheck_Go(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{
			"valid program",
			"package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
			true,
		},
		{
			"missing brace",
			"package main\n\nfunc main() {\n\tprintln(\"hi\")\n",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(tt.code)
			if res.Language != "go" {
				t.Fatalf("expected go, detected %q", res.Language)
			}
			if res.Valid != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, res.Valid)
			}
		})
	}
}

func TestCheck_Shell(t *testing.T) {
	res := Check("#!/bin/bash\nfor f in *.txt; do\n  echo \"$f\"\ndone\n")
	if res.Language != "shell" || !res.Valid {
		t.Errorf("expected valid shell, got %+v", res)
	}

	res = Check("#!/bin/sh\nif [ -f x ] then\n") // broken: no 'fi', missing semicolon
	if res.Language != "shell" {
		t.Fatalf("expected shell, detected %q", res.Language)
	}
	if res.Valid {
		t.Error("truncated script must be invalid")
	}
}

func TestCheck_PythonHeuristic(t *testing.T) {
	res := Check("import os\n\ndef main():\n    print('ok')\n")
	if res.Language != "python" || !res.Valid {
		t.Errorf("expected valid python, got %+v", res)
	}

	res = Check("def f(:\n    return (1, 2\n")
	if res.Valid {
		t.Error("unbalanced parens must be invalid")
	}
}

func TestCheck_IgnoresDelimitersInStrings(t *testing.T) {
	res := Check("import re\nx = '(((' + \")\"\n")
	if !res.Valid {
		t.Error("delimiters inside string literals must not count")
	}
}

func TestCheck_UnknownLanguage(t *testing.T) {
	res := Check("SELECT * FROM users WHERE id = 1;")
	if res.Language != "unknown" {
		t.Errorf("expected unknown, got %q", res.Language)
	}
	if !res.Valid {
		t.Error("balanced text should pass the fallback check")
	}
}
