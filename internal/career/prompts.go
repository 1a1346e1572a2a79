package career

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.md
var promptFS embed.FS

// renderPrompt loads an embedded prompt template and substitutes every
// {{NAME}} placeholder. Prompts are plain markdown with uppercase
// placeholders; missing files are a programming error and panic at startup
// via the tests.
func renderPrompt(name string, vars map[string]string) (string, error) {
	raw, err := promptFS.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	out := string(raw)
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out, nil
}
