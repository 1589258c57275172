package textproc

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDict(t *testing.T, content string) *Dictionary {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictionary.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return LoadDictionary(path)
}

func TestDictionaryReplacements(t *testing.T) {
	d := writeDict(t, `{
		"replacements": {"gihub": "GitHub", "kubernets": "Kubernetes"},
		"case_sensitive": {},
		"patterns": []
	}`)

	got := d.Apply("I pushed to Gihub and deployed on kubernets")
	want := "I pushed to GitHub and deployed on Kubernetes"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDictionaryWholeWordsOnly(t *testing.T) {
	d := writeDict(t, `{"replacements": {"go": "Go"}, "case_sensitive": {}, "patterns": []}`)

	got := d.Apply("let's go play golf")
	if got != "let's Go play golf" {
		t.Errorf("got %q, replacement leaked into a larger word", got)
	}
}

func TestDictionaryCaseSensitive(t *testing.T) {
	d := writeDict(t, `{
		"replacements": {},
		"case_sensitive": {"API": "API"},
		"patterns": []
	}`)

	if got := d.Apply("the api is down, the API too"); got != "the api is down, the API too" {
		t.Errorf("case-sensitive rule must not touch other cases: %q", got)
	}
}

func TestDictionaryPatterns(t *testing.T) {
	d := writeDict(t, `{
		"replacements": {},
		"case_sensitive": {},
		"patterns": [{"pattern": "\\bv(\\d+) dot (\\d+)\\b", "replacement": "v$1.$2"}]
	}`)

	if got := d.Apply("upgrade to v1 dot 24"); got != "upgrade to v1.24" {
		t.Errorf("got %q", got)
	}
}

func TestDictionarySkipsExampleEntries(t *testing.T) {
	d := writeDict(t, `{
		"replacements": {"_example_typo": "_corrected_word"},
		"case_sensitive": {"_Example": "_Fixed"},
		"patterns": [{"pattern": "_disabled", "replacement": "x"}]
	}`)

	in := "text mentioning _example_typo and _Example"
	if got := d.Apply(in); got != in {
		t.Errorf("example entries must be inert, got %q", got)
	}
}

func TestDictionaryCorruptFileIsEmpty(t *testing.T) {
	d := writeDict(t, `{not json`)

	in := "anything at all"
	if got := d.Apply(in); got != in {
		t.Errorf("corrupt dictionary must pass text through, got %q", got)
	}
}

func TestDictionaryCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dictionary.json")
	LoadDictionary(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template not created: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("template is empty")
	}

	// Template entries are examples and must not alter text.
	d := LoadDictionary(path)
	if got := d.Apply("hello there"); got != "hello there" {
		t.Errorf("got %q", got)
	}
}

func TestDictionaryAddRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.json")
	d := LoadDictionary(path)

	if err := d.Add("acme", "ACME", false); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := d.Apply("deploy to acme now"); got != "deploy to ACME now" {
		t.Errorf("got %q", got)
	}

	// Survives a reload from disk.
	d2 := LoadDictionary(path)
	if got := d2.Apply("deploy to acme now"); got != "deploy to ACME now" {
		t.Errorf("after reload got %q", got)
	}

	removed, err := d2.Remove("acme")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("expected removal")
	}
	if got := d2.Apply("deploy to acme now"); got != "deploy to acme now" {
		t.Errorf("after removal got %q", got)
	}
}
