package frontmatter

import (
	"testing"
)

func TestSplit_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ncreated: 2023-01-01\ntags:\n  - go\n---\n# Hello\nBody text.\n")
	fm, body := Split(input)
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
	created, ok := String(fm, "created")
	if !ok || created != "2023-01-01" {
		t.Errorf("created = %q (ok=%v), want 2023-01-01 as string", created, ok)
	}
}

func TestSplit_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	fm, body := Split(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	fm, body := Split(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if body != string(input) {
		t.Errorf("body = %q, want whole input", body)
	}
}

func TestSplit_Unclosed(t *testing.T) {
	fm, _ := Split([]byte("---\ncreated: 2023-01-01\nno closing fence\n"))
	if fm != nil {
		t.Errorf("expected nil frontmatter without closing fence, got %v", fm)
	}
}

func TestSplit_OpeningFenceMustStandAlone(t *testing.T) {
	fm, _ := Split([]byte("----\ncreated: x\n---\n"))
	if fm != nil {
		t.Errorf("expected nil frontmatter for ---- fence, got %v", fm)
	}
}

func TestSplit_NonMappingBlock(t *testing.T) {
	fm, _ := Split([]byte("---\n- a\n- b\n---\nbody\n"))
	if fm != nil {
		t.Errorf("expected nil frontmatter for a YAML list, got %v", fm)
	}
}

func TestSplit_CRLF(t *testing.T) {
	fm, _ := Split([]byte("---\r\nupdated: \"2024-02-03\"\r\n---\r\nbody\r\n"))
	updated, ok := String(fm, "updated")
	if !ok || updated != "2024-02-03" {
		t.Errorf("updated = %q (ok=%v)", updated, ok)
	}
}

func TestString_NonString(t *testing.T) {
	fm := map[string]any{"created": 1700000000, "flag": true}
	if _, ok := String(fm, "created"); ok {
		t.Error("numbers are not strings")
	}
	if _, ok := String(fm, "flag"); ok {
		t.Error("bools are not strings")
	}
	if _, ok := String(nil, "missing"); ok {
		t.Error("nil map has no keys")
	}
}

func TestSplit_UnquotedTimestampKeepsSourceText(t *testing.T) {
	fm, _ := Split([]byte("---\ncreated: 2023-01-01\nupdated: 2023-01-02T10:20:30Z\ncount: 3\n---"))
	for key, want := range map[string]string{"created": "2023-01-01", "updated": "2023-01-02T10:20:30Z"} {
		got, ok := String(fm, key)
		if !ok || got != want {
			t.Errorf("%s = %q (ok=%v), want %q", key, got, ok, want)
		}
	}
	if _, ok := String(fm, "count"); ok {
		t.Error("integers stay integers")
	}
}

func TestSplit_ClosingFenceMustStandAlone(t *testing.T) {
	for _, input := range []string{
		"---\ncreated: \"2023-01-01\"\n----\nbody\n",
		"---\ncreated: \"2023-01-01\"\n---foo\nbody\n",
	} {
		fm, body := Split([]byte(input))
		if fm != nil {
			t.Errorf("%q: block must stay open, got %v", input, fm)
		}
		if body != input {
			t.Errorf("body = %q, want whole input", body)
		}
	}

	fm, body := Split([]byte("---\ncreated: \"2023-01-01\"\n---  \nbody ----\n"))
	if got, _ := String(fm, "created"); got != "2023-01-01" {
		t.Errorf("created = %q", got)
	}
	if body != "body ----\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_EmptyBlock(t *testing.T) {
	fm, body := Split([]byte("---\n---\nbody\n"))
	if fm != nil {
		t.Errorf("expected nil frontmatter for an empty block, got %v", fm)
	}
	if body != "body\n" {
		t.Errorf("body = %q", body)
	}
}
