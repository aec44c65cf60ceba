package introspect

import (
	"regexp"
	"strings"
)

// DocFormat identifies the dialect a doc text is written in.
type DocFormat int

const (
	FormatUnknown DocFormat = iota
	FormatGoogle
	FormatNumPy
	FormatSphinx
)

func (f DocFormat) String() string {
	switch f {
	case FormatGoogle:
		return "google"
	case FormatNumPy:
		return "numpy"
	case FormatSphinx:
		return "sphinx"
	default:
		return "unknown"
	}
}

// DocInfo is the structured result of parsing a doc text.
type DocInfo struct {
	Summary     string
	Description string
	Params      map[string]string
	Returns     string
	Raises      map[string]string
	Format      DocFormat
}

var (
	googleArgsRe    = regexp.MustCompile(`(?m)^\s*Args?:\s*$`)
	googleReturnsRe = regexp.MustCompile(`(?m)^\s*Returns?:\s*$`)
	googleRaisesRe  = regexp.MustCompile(`(?m)^\s*Raises?:\s*$`)

	numpyParamsRe = regexp.MustCompile(`(?m)^\s*Parameters\s*$`)
	numpyDashesRe = regexp.MustCompile(`(?m)^\s*-{3,}\s*$`)

	sphinxParamRe   = regexp.MustCompile(`(?m)^\s*:param\s+\w+:`)
	sphinxTypeRe    = regexp.MustCompile(`(?m)^\s*:type\s+\w+:`)
	sphinxReturnsRe = regexp.MustCompile(`(?m)^\s*:returns?:`)
	sphinxRaisesRe  = regexp.MustCompile(`(?m)^\s*:raises?\s+\w+:`)
)

// DetectFormat guesses the dialect of doc. Sphinx directives are the most
// specific signal and win; NumPy needs both a Parameters header and a
// dashes underline; Google section headers come last.
func DetectFormat(doc string) DocFormat {
	if doc == "" {
		return FormatUnknown
	}
	if sphinxParamRe.MatchString(doc) || sphinxTypeRe.MatchString(doc) ||
		sphinxReturnsRe.MatchString(doc) || sphinxRaisesRe.MatchString(doc) {
		return FormatSphinx
	}
	if numpyParamsRe.MatchString(doc) && numpyDashesRe.MatchString(doc) {
		return FormatNumPy
	}
	if googleArgsRe.MatchString(doc) || googleReturnsRe.MatchString(doc) ||
		googleRaisesRe.MatchString(doc) {
		return FormatGoogle
	}
	return FormatUnknown
}

// ParseDoc detects the dialect of doc and extracts summary, description
// and per-parameter texts. Unknown dialects still yield the summary and
// the full text as description.
func ParseDoc(doc string) DocInfo {
	if doc == "" {
		return DocInfo{Params: map[string]string{}, Raises: map[string]string{}}
	}
	switch DetectFormat(doc) {
	case FormatGoogle:
		return parseGoogle(doc)
	case FormatNumPy:
		return parseNumPy(doc)
	case FormatSphinx:
		return parseSphinx(doc)
	}
	info := DocInfo{Params: map[string]string{}, Raises: map[string]string{}}
	for _, line := range strings.Split(doc, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			info.Summary = s
			info.Description = strings.TrimSpace(doc)
			break
		}
	}
	return info
}

func firstNonEmpty(lines []string) string {
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

var googleSectionRe = map[string]*regexp.Regexp{
	"args":       regexp.MustCompile(`^\s*Args?:\s*$`),
	"returns":    regexp.MustCompile(`^\s*Returns?:\s*$`),
	"raises":     regexp.MustCompile(`^\s*Raises?:\s*$`),
	"yields":     regexp.MustCompile(`^\s*Yields?:\s*$`),
	"examples":   regexp.MustCompile(`^\s*Examples?:\s*$`),
	"attributes": regexp.MustCompile(`^\s*Attributes?:\s*$`),
	"note":       regexp.MustCompile(`^\s*Notes?:\s*$`),
}

func parseGoogle(doc string) DocInfo {
	info := DocInfo{Format: FormatGoogle, Params: map[string]string{}, Raises: map[string]string{}}
	lines := strings.Split(doc, "\n")
	info.Summary = firstNonEmpty(lines)

	sections := map[string][]string{}
	current := "description"
	start := 0
	for i, line := range lines {
		for name, re := range googleSectionRe {
			if re.MatchString(line) {
				sections[current] = lines[start:i]
				current = name
				start = i + 1
				break
			}
		}
	}
	sections[current] = lines[start:]

	if desc, ok := sections["description"]; ok {
		info.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	}
	if args, ok := sections["args"]; ok {
		info.Params = parseGoogleParams(args)
	}
	if ret, ok := sections["returns"]; ok {
		info.Returns = strings.TrimSpace(strings.Join(ret, "\n"))
	}
	if raises, ok := sections["raises"]; ok {
		info.Raises = parseGoogleParams(raises)
	}
	return info
}

// googleParamRe matches "name: description" and "name (type): description"
// with arbitrary leading indentation.
var googleParamRe = regexp.MustCompile(`^(\s*)(\w+)(?:\s*\([^)]+\))?\s*:\s*(.*)$`)

func parseGoogleParams(lines []string) map[string]string {
	params := map[string]string{}
	var name string
	var desc []string
	baseIndent := -1

	flush := func() {
		if name != "" {
			params[name] = strings.TrimSpace(strings.Join(desc, " "))
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := googleParamRe.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			if baseIndent == -1 {
				baseIndent = indent
			}
			if indent == baseIndent {
				flush()
				name = m[2]
				desc = desc[:0]
				if s := strings.TrimSpace(m[3]); s != "" {
					desc = append(desc, s)
				}
				continue
			}
		}
		// More indented lines continue the current description.
		if name != "" && baseIndent != -1 && indentOf(line) > baseIndent {
			desc = append(desc, strings.TrimSpace(line))
		}
	}
	flush()
	return params
}

var numpyUnderlineRe = regexp.MustCompile(`^-{3,}$`)

func parseNumPy(doc string) DocInfo {
	info := DocInfo{Format: FormatNumPy, Params: map[string]string{}, Raises: map[string]string{}}
	lines := strings.Split(doc, "\n")
	info.Summary = firstNonEmpty(lines)

	sections := map[string][]string{}
	current := ""
	start := 0
	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && numpyUnderlineRe.MatchString(strings.TrimSpace(lines[i+1])) {
			if current != "" {
				sections[current] = lines[start:i]
			}
			current = strings.ToLower(strings.TrimSpace(lines[i]))
			start = i + 2
			i++
		}
	}
	if current != "" {
		sections[current] = lines[start:]
	}

	if params, ok := sections["parameters"]; ok {
		info.Params = parseNumPyParams(params)
	}
	if ret, ok := sections["returns"]; ok {
		var parts []string
		for _, line := range ret {
			if s := strings.TrimSpace(line); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 1 {
			// The first line is the return type, not the description.
			info.Returns = strings.Join(parts[1:], " ")
		} else if len(parts) == 1 {
			info.Returns = parts[0]
		}
	}
	if raises, ok := sections["raises"]; ok {
		info.Raises = parseNumPyParams(raises)
	}
	return info
}

var numpyParamRe = regexp.MustCompile(`^(\w+)\s*(?::\s*.*)?$`)

func parseNumPyParams(lines []string) map[string]string {
	params := map[string]string{}
	var name string
	var desc []string
	baseIndent := -1

	flush := func() {
		if name != "" {
			params[name] = strings.TrimSpace(strings.Join(desc, " "))
		}
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		indent := indentOf(line)
		if baseIndent == -1 {
			baseIndent = indent
		}
		if indent == baseIndent {
			if m := numpyParamRe.FindStringSubmatch(stripped); m != nil {
				flush()
				name = m[1]
				desc = desc[:0]
			}
		} else if name != "" && indent > baseIndent {
			desc = append(desc, stripped)
		}
	}
	flush()
	return params
}

var (
	sphinxParamEntryRe   = regexp.MustCompile(`:param\s+(\w+):\s*(.+)`)
	sphinxReturnsEntryRe = regexp.MustCompile(`:returns?:\s*(.+)`)
	sphinxRaisesEntryRe  = regexp.MustCompile(`:raises?\s+(\w+):\s*(.+)`)
)

func parseSphinx(doc string) DocInfo {
	info := DocInfo{Format: FormatSphinx, Params: map[string]string{}, Raises: map[string]string{}}
	lines := strings.Split(doc, "\n")

	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s != "" && !strings.HasPrefix(s, ":") {
			info.Summary = s
			break
		}
	}

	var desc []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			break
		}
		desc = append(desc, line)
	}
	info.Description = strings.TrimSpace(strings.Join(desc, "\n"))

	for _, m := range sphinxParamEntryRe.FindAllStringSubmatch(doc, -1) {
		info.Params[m[1]] = strings.TrimSpace(m[2])
	}
	if m := sphinxReturnsEntryRe.FindStringSubmatch(doc); m != nil {
		info.Returns = strings.TrimSpace(m[1])
	}
	for _, m := range sphinxRaisesEntryRe.FindAllStringSubmatch(doc, -1) {
		info.Raises[m[1]] = strings.TrimSpace(m[2])
	}
	return info
}
