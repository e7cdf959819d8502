package slots

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// valueColumnCandidates are header names recognized as the value column of a
// per-slot CSV/TSV lookup file.
var valueColumnCandidates = []string{"value", "valor", "nombre", "name", "canonical", "elemento"}

// LoadLookupDir builds a table from one file per slot: <slot>.txt, <slot>.csv
// or <slot>.tsv. A missing directory yields an empty table and a warning.
func LoadLookupDir(dir string, log Logger) (*LookupTable, error) {
	log = orNop(log)
	clean := strings.TrimSpace(dir)
	if clean == "" {
		log.Warn("lookup directory not configured, every slot is unrestricted")
		return EmptyLookupTable(), nil
	}
	entries, err := os.ReadDir(filepath.Clean(clean))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("lookup directory missing, every slot is unrestricted", "dir", dir)
			return EmptyLookupTable(), nil
		}
		return nil, &LoadError{Asset: "lookup directory", Path: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	values := make(map[string][]string)
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".txt", ".csv", ".tsv":
		default:
			continue
		}
		slot := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(clean, name)
		list, err := ParseValueFile(path, "")
		if err != nil {
			return nil, &LoadError{Asset: "lookup file", Path: path, Err: err}
		}
		values[slot] = append(values[slot], list...)
	}
	table := NewLookupTable(values)
	log.Info("lookup directory loaded", "dir", dir, "slots", table.Len(), "values", table.Size())
	return table, nil
}

// ParseValueFile reads canonical values for a single slot. Plain text files
// hold one value per line (an optional "- " prefix is stripped); CSV/TSV files
// use column, a header name or 1-based "#n", or the auto-detected value column.
// Values are deduplicated by their normalized form, keeping the first spelling.
func ParseValueFile(path, column string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var raw []string
	var err error
	switch ext {
	case ".csv":
		raw, err = parseDelimitedValues(path, ',', column)
	case ".tsv":
		raw, err = parseDelimitedValues(path, '\t', column)
	default:
		raw, err = parsePlainValues(path)
	}
	if err != nil {
		return nil, err
	}
	return uniqueByNormalized(raw), nil
}

func parsePlainValues(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for scanner.Scan() {
		line := cleanCell(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

func parseDelimitedValues(path string, comma rune, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	col, start, err := resolveValueColumn(header, column)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		if v := cleanCell(row[col]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// resolveValueColumn returns the value column and the first data row.
func resolveValueColumn(header []string, explicit string) (int, int, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		idx, fromHeader, err := matchExplicitColumn(header, trimmed)
		if err != nil {
			return -1, 0, err
		}
		if fromHeader {
			return idx, 1, nil
		}
		return idx, 0, nil
	}
	if col := findColumn(header, valueColumnCandidates); col >= 0 {
		return col, 1, nil
	}
	if len(header) == 0 {
		return -1, 0, errors.New("no usable value column found")
	}
	return 0, 0, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	for i, col := range header {
		if strings.EqualFold(col, explicit) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(explicit, "#") {
		idx, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(explicit, "#")))
		if err != nil || idx <= 0 {
			return -1, false, fmt.Errorf("invalid column index %q (1-based)", explicit)
		}
		if idx > len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", explicit)
		}
		return idx - 1, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "\ufeff")
}

func uniqueByNormalized(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := Normalize(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
