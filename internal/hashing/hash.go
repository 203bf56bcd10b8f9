package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/mmrzaf/colgen/internal/schema"
)

// HashSchema fingerprints the parts of a schema that affect generation.
// Descriptions and the display name are left out; type strings are
// normalized to their resolved form so spelling variants hash alike.
func HashSchema(s *schema.Schema) (string, error) {
	canonical := canonicalizeSchema(s)
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeSchema(s *schema.Schema) map[string]interface{} {
	tables := make([]map[string]interface{}, len(s.Tables))
	for i, table := range s.Tables {
		columns := make([]map[string]interface{}, len(table.Columns))
		for j, col := range table.Columns {
			columns[j] = canonicalizeColumn(s.Dialect, col)
		}
		tables[i] = map[string]interface{}{
			"name":    table.Name,
			"columns": columns,
		}
	}

	result := map[string]interface{}{
		"dialect": string(s.Dialect),
		"tables":  tables,
	}
	if s.ID != "" {
		result["id"] = s.ID
	}
	if s.Seed != nil {
		result["seed"] = *s.Seed
	}
	return result
}

func canonicalizeColumn(dialect schema.Dialect, def schema.ColumnDef) map[string]interface{} {
	m := map[string]interface{}{
		"name":     def.Name,
		"not_null": def.NotNull,
	}
	col, err := def.Resolve(dialect)
	if err != nil {
		m["type"] = strings.ToUpper(strings.TrimSpace(def.Type))
		m["size"] = def.Size
		return m
	}
	m["type"] = col.Type.String()
	m["size"] = col.Size
	return m
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
