package aggregate

import (
	"strings"
)

const DefaultSuggestionLimit = 5

// Suggest returns up to limit past names whose lower-case form starts with
// the lower-cased partial input. Source order is kept and names in exclude
// are skipped. An empty partial yields nothing.
func Suggest(partial string, past []string, exclude []string, limit int) []string {
	if partial == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	skip := make(map[string]struct{}, len(exclude)+len(past))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}

	prefix := strings.ToLower(partial)
	out := make([]string, 0, limit)
	for _, name := range past {
		if len(out) == limit {
			break
		}
		if _, ok := skip[name]; ok {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			out = append(out, name)
			skip[name] = struct{}{}
		}
	}
	return out
}
