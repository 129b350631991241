package agent

import (
	"strings"

	"github.com/cperez90008/kiwiai/core/memory"
)

const basePersona = "You are KiwiAI, a 24/7 autonomous AI agent running on a personal server. " +
	"You are helpful, proactive, and efficient. You can execute tasks, remember context, and work autonomously."

// buildSystemPrompt assembles the persona, the remembered-facts block (absent
// when nothing is known) and the active skills line.
func buildSystemPrompt(facts *memory.Store, skills []string) string {
	prompt := basePersona + facts.ContextBlock()
	if len(skills) > 0 {
		prompt += "\n\nActive skills: " + strings.Join(skills, ", ")
	}
	return prompt
}
