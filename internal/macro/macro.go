// Package macro implements token expansion for the generator: named macro
// references ($name) and environment-style variable references (${NAME}).
//
// Macro expansion is single-pass: the strings a macro expands to are returned
// verbatim and never re-scanned for further macro references.
package macro

import "strings"

// Table maps a macro name to its ordered expansion. It is loaded once from
// the document root and treated as read-only during generation.
type Table map[string][]string

// IsReference reports whether token has the shape of a macro reference and
// returns the macro name if so. A reference starts with '$', is longer than
// the dollar sign alone, and is not a ${NAME} variable reference.
func IsReference(token string) (string, bool) {
	if len(token) > 1 && strings.HasPrefix(token, "$") && !strings.HasPrefix(token, "${") {
		return token[1:], true
	}
	return "", false
}

// Expand resolves token against the table. For a known macro it returns the
// macro's string list verbatim. For an unknown macro it returns the token
// unchanged and miss=true so the caller can record the advisory warning.
// Any token that is not a macro reference is returned unchanged.
func (t Table) Expand(token string) (words []string, miss bool) {
	name, ok := IsReference(token)
	if !ok {
		return []string{token}, false
	}
	if expansion, found := t[name]; found {
		return expansion, false
	}
	return []string{token}, true
}

// SubstituteOnce replaces every literal ${NAME} occurrence in s for each
// variable in vars, reporting whether any replacement happened.
func SubstituteOnce(s string, vars map[string]string) (bool, string) {
	changed := false
	for name, value := range vars {
		next := strings.ReplaceAll(s, "${"+name+"}", value)
		if next != s {
			changed = true
			s = next
		}
	}
	return changed, s
}

// SubstituteDeep applies SubstituteOnce until a pass makes no change, so a
// variable value may itself reference other variables. Callers must keep the
// variable graph acyclic; mutually referencing values would otherwise rewrite
// each other forever, so the loop carries a pass cap that leaves acyclic
// inputs untouched.
func SubstituteDeep(s string, vars map[string]string) string {
	maxPasses := len(vars) + 8
	for i := 0; i < maxPasses; i++ {
		changed, next := SubstituteOnce(s, vars)
		s = next
		if !changed {
			break
		}
	}
	return s
}
