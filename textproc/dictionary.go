// Package textproc post-processes transcripts: custom dictionary
// replacements plus the LLM-backed session modes.
package textproc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"dicton/log"
)

// Dictionary applies user-defined corrections to transcripts. Backed by
// a JSON file with three sections: case-insensitive whole-word
// replacements, exact case-sensitive replacements, and regex patterns.
// Keys starting with "_" are treated as disabled examples.
type Dictionary struct {
	path string

	mu            sync.RWMutex
	replacements  map[string]string
	caseSensitive map[string]string
	patterns      []dictPattern
}

type dictPattern struct {
	re          *regexp.Regexp
	replacement string
}

type dictFile struct {
	Comment       string            `json:"_comment,omitempty"`
	Replacements  map[string]string `json:"replacements"`
	CaseSensitive map[string]string `json:"case_sensitive"`
	Patterns      []struct {
		Comment     string `json:"_comment,omitempty"`
		Pattern     string `json:"pattern"`
		Replacement string `json:"replacement"`
	} `json:"patterns"`
}

// DefaultDictionaryPath is ~/.config/dicton/dictionary.json.
func DefaultDictionaryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dictionary.json"
	}
	return filepath.Join(home, ".config", "dicton", "dictionary.json")
}

// LoadDictionary reads the dictionary at path, creating a template file
// with disabled example entries when none exists. A corrupt file loads
// as an empty dictionary rather than failing the session.
func LoadDictionary(path string) *Dictionary {
	if path == "" {
		path = DefaultDictionaryPath()
	}
	d := &Dictionary{path: path}
	d.Reload()
	return d
}

// Reload re-reads the dictionary file from disk.
func (d *Dictionary) Reload() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.replacements = map[string]string{}
	d.caseSensitive = map[string]string{}
	d.patterns = nil

	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		d.writeTemplate()
		return
	}
	if err != nil {
		log.Warnf("dictionary read failed: %v", err)
		return
	}

	var file dictFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Warnf("dictionary parse failed, ignoring %s: %v", d.path, err)
		return
	}

	for k, v := range file.Replacements {
		d.replacements[strings.ToLower(k)] = v
	}
	for k, v := range file.CaseSensitive {
		d.caseSensitive[k] = v
	}
	for _, p := range file.Patterns {
		if strings.HasPrefix(p.Pattern, "_") {
			continue
		}
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			log.Warnf("dictionary pattern %q skipped: %v", p.Pattern, err)
			continue
		}
		d.patterns = append(d.patterns, dictPattern{re: re, replacement: p.Replacement})
	}
}

func (d *Dictionary) writeTemplate() {
	template := dictFile{
		Comment:       "Custom dictionary for dicton - word replacements and corrections",
		Replacements:  map[string]string{"_example_typo": "_corrected_word"},
		CaseSensitive: map[string]string{"_Example": "_Example_Corrected"},
	}
	template.Patterns = append(template.Patterns, struct {
		Comment     string `json:"_comment,omitempty"`
		Pattern     string `json:"pattern"`
		Replacement string `json:"replacement"`
	}{
		Comment:     "Example regex pattern (disabled)",
		Pattern:     "_disabled_pattern",
		Replacement: "_replacement",
	})

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(d.path, data, 0o644)
}

// Apply runs all enabled replacements over text: exact case-sensitive
// first, then whole-word case-insensitive, then regex patterns.
func (d *Dictionary) Apply(text string) string {
	if text == "" {
		return text
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	for original, replacement := range d.caseSensitive {
		if strings.HasPrefix(original, "_") {
			continue
		}
		text = strings.ReplaceAll(text, original, replacement)
	}
	for original, replacement := range d.replacements {
		if strings.HasPrefix(original, "_") {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(original) + `\b`)
		if err != nil {
			continue
		}
		text = re.ReplaceAllString(text, replacement)
	}
	for _, p := range d.patterns {
		text = p.re.ReplaceAllString(text, p.replacement)
	}
	return text
}

// Add stores a new replacement and persists the dictionary.
func (d *Dictionary) Add(original, replacement string, caseSensitive bool) error {
	d.mu.Lock()
	if caseSensitive {
		d.caseSensitive[original] = replacement
	} else {
		d.replacements[strings.ToLower(original)] = replacement
	}
	d.mu.Unlock()
	return d.save()
}

// Remove deletes a replacement from both sections. Reports whether
// anything was removed.
func (d *Dictionary) Remove(original string) (bool, error) {
	d.mu.Lock()
	removed := false
	if _, ok := d.caseSensitive[original]; ok {
		delete(d.caseSensitive, original)
		removed = true
	}
	if _, ok := d.replacements[strings.ToLower(original)]; ok {
		delete(d.replacements, strings.ToLower(original))
		removed = true
	}
	d.mu.Unlock()

	if !removed {
		return false, nil
	}
	return true, d.save()
}

func (d *Dictionary) save() error {
	d.mu.RLock()
	file := dictFile{
		Comment:       "Custom dictionary for dicton - word replacements and corrections",
		Replacements:  d.replacements,
		CaseSensitive: d.caseSensitive,
	}
	for _, p := range d.patterns {
		file.Patterns = append(file.Patterns, struct {
			Comment     string `json:"_comment,omitempty"`
			Pattern     string `json:"pattern"`
			Replacement string `json:"replacement"`
		}{
			Pattern:     strings.TrimPrefix(p.re.String(), "(?i)"),
			Replacement: p.replacement,
		})
	}
	d.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("dictionary dir: %w", err)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0o644)
}

// Path returns the dictionary file location.
func (d *Dictionary) Path() string { return d.path }
