package spriter

import (
	"strconv"
	"strings"
)

// SupportedVersion is the SCML version this parser is written for. Files of
// the same major version are accepted.
const SupportedVersion = "1.0"

// CompatibleVersion reports whether a parser written for parserVersion can
// read a file of fileVersion: the file must not be older than the parser and
// older than the parser's next major version.
func CompatibleVersion(parserVersion, fileVersion string) bool {
	if strings.TrimSpace(fileVersion) == "" {
		return false
	}
	if VersionLess(fileVersion, parserVersion) {
		return false
	}
	return VersionLess(fileVersion, IncreaseVersion(parserVersion, 0))
}

// VersionLess reports whether version a is lower than b. Versions are
// compared number by number with missing numbers taken as 0, so "3.1.2" is
// lower than "3.2" and "1.0" equals "1".
func VersionLess(a, b string) bool {
	pa, pb := versionParts(a), versionParts(b)
	n := max(len(pa), len(pb))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			return x < y
		}
	}
	return false
}

// IncreaseVersion increments the number at index and drops every number
// after it. Missing numbers up to index are filled with 0:
//
//	IncreaseVersion("1.2.3", 1) == "1.3"
//	IncreaseVersion("1", 2)     == "1.0.1"
func IncreaseVersion(version string, index int) string {
	if index < 0 {
		index = 0
	}
	parts := versionParts(version)
	for len(parts) <= index {
		parts = append(parts, 0)
	}
	parts = parts[:index+1]
	parts[index]++

	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.Itoa(p)
	}
	return strings.Join(out, ".")
}

func versionParts(version string) []int {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}
	fields := strings.Split(version, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		// non-numeric suffixes like "1.0b" count by their leading digits
		end := 0
		for end < len(f) && f[end] >= '0' && f[end] <= '9' {
			end++
		}
		n, _ := strconv.Atoi(f[:end])
		parts[i] = n
	}
	return parts
}
