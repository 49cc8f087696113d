package batch

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTexts reads batch input from path. YAML files hold a list of strings;
// anything else is read as one text per non-blank line.
func LoadTexts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var texts []string
		if err := yaml.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return compact(texts), nil
	default:
		var texts []string
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			texts = append(texts, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		return compact(texts), nil
	}
}

// compact trims texts and drops blank ones.
func compact(texts []string) []string {
	out := texts[:0]
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
