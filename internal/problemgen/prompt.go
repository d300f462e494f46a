package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/primemath/internal/curriculum"
)

// outputDirective pins the response format. The parser depends on every
// line of it, so it must not be loosened.
const outputDirective = `CRITICAL: You MUST respond with ONLY valid JSON in this EXACT format:
{
  "problem": "Calculate: 2/5 × 10/7",
  "answer": 0.571428
}

RULES:
- "problem": Clear problem statement (string)
- "answer": MUST be a decimal number (not a fraction, not a string)
- If the mathematical answer is a fraction like 4/7, convert to decimal: 0.571428
- If the answer is a whole number like 5, write it as: 5 or 5.0
- Round to maximum 6 decimal places
- NO explanatory text before or after the JSON
- NO markdown code blocks
- ONLY the JSON object`

// BuildPrompt renders the generation prompt for a topic. The result depends
// only on the topic.
func BuildPrompt(topic curriculum.Topic) string {
	var b strings.Builder

	b.WriteString("Generate ONE math problem for Singapore primary school students.\n\n")
	fmt.Fprintf(&b, "TOPIC: %s\n", topic.Title)
	fmt.Fprintf(&b, "DESCRIPTION: %s\n", topic.Description)

	if len(topic.Constraints) > 0 {
		b.WriteString("\nCONSTRAINTS:\n")
		for _, c := range topic.Constraints {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	if len(topic.Examples) > 0 {
		b.WriteString("\nEXAMPLE FORMAT (for problem style only):\n")
		for _, e := range topic.Examples {
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(outputDirective)
	return b.String()
}
