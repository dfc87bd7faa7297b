package report

import (
	"fmt"
	"io"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// Console renders verification events as indented human-readable text.
type Console struct {
	w io.Writer
}

// NewConsole creates a console reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) GeneratesMessage(interaction contract.Interaction) {
	fmt.Fprintf(c.w, "  %s\n", interaction.Description)
	fmt.Fprintf(c.w, "    generates a message which\n")
}

func (c *Console) BodyMatch() {
	fmt.Fprintf(c.w, "      has a matching body (OK)\n")
}

func (c *Console) BodyMismatch(diff compare.Diff) {
	fmt.Fprintf(c.w, "      has a matching body (FAILED)\n")
	for _, path := range diff.SortedPaths() {
		m := diff[path]
		fmt.Fprintf(c.w, "        %s: %s (expected %v, got %v)\n", path, m.Message, m.Expected, m.Actual)
	}
}

func (c *Console) MetadataMatch(key string) {
	fmt.Fprintf(c.w, "      includes metadata %q (OK)\n", key)
}

func (c *Console) MetadataMismatch(key string, expected any, diff compare.Diff) {
	fmt.Fprintf(c.w, "      includes metadata %q with value %v (FAILED)\n", key, expected)
	for _, path := range diff.SortedPaths() {
		m := diff[path]
		fmt.Fprintf(c.w, "        %s: %s (expected %v, got %v)\n", path, m.Message, m.Expected, m.Actual)
	}
}

func (c *Console) NoHandlerFound(interaction contract.Interaction) {
	fmt.Fprintf(c.w, "  %s\n", interaction.Description)
	fmt.Fprintf(c.w, "    no handler found for this interaction (FAILED)\n")
}

func (c *Console) VerificationError(interaction contract.Interaction, err error, showStacktrace bool) {
	fmt.Fprintf(c.w, "  %s\n", interaction.Description)
	if showStacktrace {
		fmt.Fprintf(c.w, "    verification failed: %+v\n", err)
	} else {
		fmt.Fprintf(c.w, "    verification failed: %v\n", err)
	}
}

func (c *Console) FinalizeReport() {
	fmt.Fprintln(c.w)
}
