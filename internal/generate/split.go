package generate

import "regexp"

// Pair splitting accepts the two forms the documents use: two quoted paths
// ("a b" "c d") or two whitespace-separated words. Arbitrary legal paths are
// out of scope.
var pairPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^"(.+)" +"(.+)"$`),
	regexp.MustCompile(`^(\S+) +(\S+)$`),
}

// splitPair splits a "src dst" token. ok is false when neither form matches.
func splitPair(s string) (src, dst string, ok bool) {
	for _, p := range pairPatterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

var envPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^"(.+)" +"(.+)"$`),
	regexp.MustCompile(`^(\S+) +(.+)$`),
}

// splitEnvDefinition splits a "NAME value" environment definition. The value
// may contain spaces. A bare name is legal and yields an empty value.
func splitEnvDefinition(s string) (name, value string) {
	for _, p := range envPatterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return m[1], m[2]
		}
	}
	return s, ""
}
