package commands

import (
	"context"
	"fmt"

	"github.com/okra-platform/tomlrpc/internal/codegen"
)

// Languages lists the registered target languages and their file extensions
func (c *Controller) Languages(ctx context.Context) error {
	for _, lang := range codegen.DefaultRegistry.Languages() {
		gen, err := codegen.DefaultRegistry.Get(lang, "")
		if err != nil {
			return err
		}
		marker := ""
		if lang == codegen.DefaultLanguage {
			marker = " (default)"
		}
		fmt.Fprintf(c.Output, "%-12s %s%s\n", lang, gen.FileExtension(), marker)
	}
	return nil
}
