package jobs

import (
	"regexp"
	"sort"
	"strings"
)

// Known skill vocabulary for keyword matching. Multi-word entries are
// matched as substrings, single words on token boundaries so "r" or "go"
// do not match inside other words.
var skillVocabulary = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "rust",
	"c++", "c#", "ruby", "php", "kotlin", "swift", "scala", "sql",
	"postgresql", "mysql", "sqlite", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "docker", "kubernetes", "terraform", "ansible",
	"aws", "gcp", "azure", "linux", "git", "ci/cd", "grpc", "graphql",
	"rest", "react", "vue", "angular", "node.js", "django", "flask",
	"spring", "machine learning", "deep learning", "data engineering",
	"devops", "microservices", "distributed systems", "agile", "scrum",
}

var tokenPattern = regexp.MustCompile(`[a-z0-9+#./]+`)

// ExtractSkills pulls known skills out of free text. Used on both the
// resume and the listing description so the overlap is computed over the
// same vocabulary.
func ExtractSkills(text string) []string {
	lowered := strings.ToLower(text)
	tokens := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(lowered, -1) {
		tokens[tok] = struct{}{}
	}

	var found []string
	for _, skill := range skillVocabulary {
		if strings.ContainsRune(skill, ' ') {
			if strings.Contains(lowered, skill) {
				found = append(found, skill)
			}
			continue
		}
		if _, ok := tokens[skill]; ok {
			found = append(found, skill)
		}
	}

	// golang is an alias; collapse it onto go.
	found = dedupeAlias(found, "golang", "go")

	sort.Strings(found)
	return found
}

func dedupeAlias(skills []string, alias, canonical string) []string {
	hasAlias, hasCanonical := false, false
	for _, s := range skills {
		switch s {
		case alias:
			hasAlias = true
		case canonical:
			hasCanonical = true
		}
	}
	if !hasAlias {
		return skills
	}
	out := skills[:0]
	for _, s := range skills {
		if s == alias {
			if hasCanonical {
				continue
			}
			s = canonical
		}
		out = append(out, s)
	}
	return out
}

// Overlap returns the skills present in both sets, preserving the order of
// the first.
func Overlap(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
