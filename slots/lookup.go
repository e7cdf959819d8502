package slots

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LookupTable maps slot names to their canonical values. It is immutable once
// built and safe for concurrent readers. A slot that is absent or maps to an
// empty list is unrestricted.
type LookupTable struct {
	values     map[string][]string
	normalized map[string][]string
}

// NewLookupTable copies values into a new table. Empty strings are dropped.
func NewLookupTable(values map[string][]string) *LookupTable {
	t := &LookupTable{
		values:     make(map[string][]string, len(values)),
		normalized: make(map[string][]string, len(values)),
	}
	for slot, list := range values {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		clean := make([]string, 0, len(list))
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				continue
			}
			clean = append(clean, v)
		}
		t.values[slot] = clean
		t.normalized[slot] = NormalizeAll(clean)
	}
	return t
}

// EmptyLookupTable returns a table where every slot is unrestricted.
func EmptyLookupTable() *LookupTable {
	return NewLookupTable(nil)
}

// ValuesFor returns a copy of the canonical values for slot, or nil if unknown.
func (t *LookupTable) ValuesFor(slot string) []string {
	if t == nil {
		return nil
	}
	list := t.values[slot]
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Restricted reports whether slot has a non-empty vocabulary.
func (t *LookupTable) Restricted(slot string) bool {
	return t != nil && len(t.values[slot]) > 0
}

// Contains reports whether value matches a canonical entry of slot after normalization.
func (t *LookupTable) Contains(slot, value string) bool {
	if t == nil {
		return false
	}
	needle := Normalize(value)
	for _, n := range t.normalized[slot] {
		if n == needle {
			return true
		}
	}
	return false
}

// Slots returns the known slot names in sorted order.
func (t *LookupTable) Slots() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.values))
	for slot := range t.values {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of slots in the table.
func (t *LookupTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}

// Size returns the total number of canonical values across slots.
func (t *LookupTable) Size() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, list := range t.values {
		n += len(list)
	}
	return n
}

// LoadLookup reads a lookup asset from path. A missing file yields an empty
// table and a single warning; unreadable or malformed content is a *LoadError.
func LoadLookup(path string, log Logger) (*LookupTable, error) {
	log = orNop(log)
	data, err := readAsset(path)
	if err != nil {
		if errors.Is(err, ErrMissingAsset) {
			log.Warn("lookup asset missing, every slot is unrestricted", "path", path)
			return EmptyLookupTable(), nil
		}
		return nil, &LoadError{Asset: "lookup", Path: path, Err: err}
	}
	table, err := ParseLookup(data)
	if err != nil {
		return nil, &LoadError{Asset: "lookup", Path: path, Err: err}
	}
	log.Info("lookup loaded", "path", path, "slots", table.Len(), "values", table.Size())
	return table, nil
}

// ParseLookup decodes a YAML lookup document. Three layouts are accepted:
// a Rasa NLU file (nlu: [{lookup, examples}]), a direct slot -> list mapping,
// and a list of {name, elements} items.
func ParseLookup(data []byte) (*LookupTable, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	values := make(map[string][]string)
	switch d := doc.(type) {
	case nil:
	case map[string]any:
		if nlu, ok := d["nlu"]; ok {
			entries, ok := nlu.([]any)
			if !ok {
				return nil, errors.New("nlu: expected a list")
			}
			for _, raw := range entries {
				entry, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				name, okName := entry["lookup"].(string)
				examples, okEx := entry["examples"].(string)
				if !okName || !okEx {
					continue
				}
				values[name] = append(values[name], parseExampleLines(examples)...)
			}
			break
		}
		for slot, raw := range d {
			list, ok := raw.([]any)
			if !ok {
				values[slot] = nil
				continue
			}
			values[slot] = scalarStrings(list)
		}
	case []any:
		for _, raw := range d {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name, ok := item["name"].(string)
			if !ok {
				continue
			}
			elements, ok := item["elements"].([]any)
			if !ok {
				continue
			}
			values[name] = append(values[name], scalarStrings(elements)...)
		}
	default:
		return nil, fmt.Errorf("unsupported document type %T", doc)
	}
	return NewLookupTable(values), nil
}

// parseExampleLines extracts "- value" lines from a Rasa examples block.
func parseExampleLines(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		if v := strings.TrimSpace(line[2:]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func scalarStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		switch s := v.(type) {
		case nil:
		case string:
			out = append(out, s)
		case map[string]any, []any:
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out
}

func readAsset(path string) ([]byte, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil, ErrMissingAsset
	}
	data, err := os.ReadFile(filepath.Clean(clean))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", clean, ErrMissingAsset)
		}
		return nil, err
	}
	return data, nil
}
