package mcp

import "strings"

// matchResourceTemplate attempts to match uri against a RFC 6570 Level 1 template (only the
// simple "{var}" expansion form, each expanding to one non-"/" path segment's worth of text).
// It returns the extracted variable values and whether the match succeeded.
func matchResourceTemplate(template, uri string) (map[string]string, bool) {
	tLit, tVars := splitTemplate(template)
	uRest := uri

	vars := make(map[string]string, len(tVars))

	for i, lit := range tLit {
		if !strings.HasPrefix(uRest, lit) {
			return nil, false
		}
		uRest = uRest[len(lit):]

		if i >= len(tVars) {
			break
		}

		nextLit := tLit[i+1]
		if nextLit == "" {
			// Nothing bounds this variable on the right; it consumes the remainder.
			if uRest == "" || strings.Contains(uRest, "/") {
				return nil, false
			}
			vars[tVars[i]] = uRest
			uRest = ""
			continue
		}

		end := strings.Index(uRest, nextLit)
		if end < 0 {
			return nil, false
		}

		value := uRest[:end]
		if value == "" || strings.Contains(value, "/") {
			return nil, false
		}

		vars[tVars[i]] = value
		uRest = uRest[end:]
	}

	if uRest != "" {
		return nil, false
	}

	return vars, true
}

// splitTemplate splits a template string into the literal segments surrounding each "{var}"
// placeholder and the ordered list of variable names.
func splitTemplate(template string) (literals []string, vars []string) {
	var cur strings.Builder

	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				cur.WriteByte(template[i])
				continue
			}
			vars = append(vars, template[i+1:i+end])
			literals = append(literals, cur.String())
			cur.Reset()
			i += end
		default:
			cur.WriteByte(template[i])
		}
	}

	literals = append(literals, cur.String())

	return literals, vars
}

// expandResourceTemplate substitutes each "{var}" placeholder in template with the
// corresponding value from vars. Placeholders with no matching value are left untouched.
func expandResourceTemplate(template string, vars map[string]string) string {
	lits, names := splitTemplate(template)

	var b strings.Builder
	for i, lit := range lits {
		b.WriteString(lit)
		if i < len(names) {
			if v, ok := vars[names[i]]; ok {
				b.WriteString(v)
			} else {
				b.WriteString("{" + names[i] + "}")
			}
		}
	}

	return b.String()
}
