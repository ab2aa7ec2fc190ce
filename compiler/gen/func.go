package gen

import (
	"github.com/go-openapi/inflect"
)

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Longer acronyms first, "ID" is a suffix of "UUID".
	for _, w := range []string{"UUID", "HTTP", "JSON", "URL", "API", "SQL", "ID"} {
		rules.AddAcronym(w)
	}
	return rules
}

// storageName derives the storage name of a column key.
func (c Casing) storageName(key string) string {
	switch c {
	case CasingSnake:
		return snake(key)
	case CasingCamel:
		return camel(key)
	default:
		return key
	}
}

// snake converts the given identifier to snake case.
//
//	createdAt => created_at
func snake(s string) string {
	return rules.Underscore(s)
}

// camel converts the given identifier to lower camel case.
//
//	created_at => createdAt
func camel(s string) string {
	return rules.CamelizeDownFirst(s)
}
