package explorer

import (
	"fmt"
	"io"
	"strings"
)

// Render writes result as the three explore sections: the meaning in Uzbek,
// a simple example and the situational examples.
func Render(w io.Writer, result ExplorationResult) error {
	var b strings.Builder

	b.WriteString("1️⃣  Meaning in Uzbek\n")
	fmt.Fprintf(&b, "   %s —\n", result.Phrase)
	fmt.Fprintf(&b, "   👉 %s\n\n", result.Explanation)

	b.WriteString("2️⃣  Simple English Example\n")
	fmt.Fprintf(&b, "   \"%s\"\n", result.SimpleExample.Sentence)
	if result.SimpleExample.Explanation != "" {
		fmt.Fprintf(&b, "   %s\n", result.SimpleExample.Explanation)
	}
	b.WriteString("\n")

	b.WriteString("3️⃣  Three Common Situational Examples\n")
	for i, s := range result.Scenarios {
		fmt.Fprintf(&b, "   %d. %s\n", i+1, s.Context)
		fmt.Fprintf(&b, "      %s\n", s.Sentence)
		if s.Explanation != "" {
			fmt.Fprintf(&b, "      %s\n", s.Explanation)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
