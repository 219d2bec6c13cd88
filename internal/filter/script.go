package filter

import (
	"strings"
	"unicode"
)

// scriptTables maps configuration names to Unicode script ranges.
var scriptTables = map[string]*unicode.RangeTable{
	"cyrillic": unicode.Cyrillic,
	"latin":    unicode.Latin,
	"greek":    unicode.Greek,
	"arabic":   unicode.Arabic,
	"hebrew":   unicode.Hebrew,
	"han":      unicode.Han,
	"hangul":   unicode.Hangul,
	"kana":     unicode.Katakana,
	"thai":     unicode.Thai,
}

// ScriptTable resolves a configured script name to its range table,
// falling back to Cyrillic for unknown names.
func ScriptTable(name string) *unicode.RangeTable {
	if table, ok := scriptTables[strings.ToLower(name)]; ok {
		return table
	}
	return unicode.Cyrillic
}

// ContainsScript reports whether text contains at least one character of
// the given writing system. Used as a language proxy: a localized catalog
// still returns untranslated titles, and those are skipped.
func ContainsScript(text string, table *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}
