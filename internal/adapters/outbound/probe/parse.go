package probe

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/fatih/camelcase"
)

// record is one block of key/value lines with normalized keys.
type record map[string]string

var (
	numberRe     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	exactBytesRe = regexp.MustCompile(`\(([\d,]+) Bytes\)`)
	resolutionRe = regexp.MustCompile(`(\d{3,5})\s*[x×]\s*(\d{3,5})`)
	refreshRe    = regexp.MustCompile(`@\s*(\d+(?:\.\d+)?)\s*Hz`)
)

// parseRecords splits text into records on blank lines (or separator
// lines of '*' or '-') and reads "key: value", "key=value" and
// PowerShell "Key : Value" lines. Lines without a separator are skipped.
func parseRecords(text string) []record {
	var out []record
	cur := record{}
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = record{}
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Trim(trimmed, "*-") == "" {
			flush()
			continue
		}
		key, value, ok := splitKeyValue(trimmed)
		if !ok {
			continue
		}
		if _, dup := cur[key]; dup {
			// a repeated key starts a new record (unseparated output)
			flush()
		}
		cur[key] = value
	}
	flush()
	return out
}

func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, ":=")
	if i <= 0 {
		return "", "", false
	}
	key = normalizeKey(line[:i])
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(line[i+1:]), true
}

// normalizeKey maps "MemTotal", "Full Charge Capacity (mAh)", "model name"
// and "hw.memsize" to snake_case.
func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	if isIdentifier(k) {
		var words []string
		for _, w := range camelcase.Split(k) {
			if w = strings.Trim(w, "_"); w != "" {
				words = append(words, strings.ToLower(w))
			}
		}
		return strings.Join(words, "_")
	}
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(k) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// isIdentifier reports a single CamelCase word such as a PowerShell
// property name.
func isIdentifier(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// mergeRecords unions records; earlier values win.
func mergeRecords(records []record) record {
	out := record{}
	for _, r := range records {
		for k, v := range r {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out
}

func (r record) has(keys ...string) bool {
	return r.str(keys...) != ""
}

// str returns the first non-empty value among keys.
func (r record) str(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

func (r record) float(keys ...string) *float64 {
	return parseFloat(r.str(keys...))
}

func (r record) int(keys ...string) *int {
	f := r.float(keys...)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func (r record) uint(keys ...string) *uint64 {
	f := r.float(keys...)
	if f == nil || *f < 0 {
		return nil
	}
	v := uint64(*f)
	return &v
}

func (r record) bool(keys ...string) *bool {
	return parseBool(r.str(keys...))
}

// parseFloat extracts the first number in s: "87%", "61.2°C", "3200 MHz".
func parseFloat(s string) *float64 {
	m := numberRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseBool(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "ok", "verified", "up", "enabled":
		v = true
	case "0", "no", "false", "failing", "down", "disabled":
		v = false
	default:
		return nil
	}
	return &v
}

// parseSize reads "500.3 GB (500277790720 Bytes)", "16 GB" or a plain
// byte count.
func parseSize(s string) *uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if m := exactBytesRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseUint(strings.ReplaceAll(m[1], ",", ""), 10, 64); err == nil {
			return &v
		}
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return &v
	}
	v, err := humanize.ParseBytes(s)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// parseKiB reads /proc/meminfo style values ("16303420 kB").
func parseKiB(s string) *uint64 {
	f := parseFloat(s)
	if f == nil || *f < 0 {
		return nil
	}
	v := uint64(*f) * 1024
	return &v
}

func parseResolution(s string) (width, height *int) {
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return &w, &h
}

func parseRefresh(s string) *float64 {
	m := refreshRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	return parseFloat(m[1])
}

// nonEmptyLines returns trimmed, non-blank lines.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
