package main

import (
	"cstrgen/internal/literal"
	"fmt"
	"go/token"

	"github.com/spf13/cobra"
)

// literalCommand constructs the 'literal' subcommand that expands a single
// literal and prints the Go expression and the bytes of its buffer.
func literalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "literal <string literal>",
		Short:   "Expands one Go string literal into a null-terminated cstr.CStr constant",
		Example: `  cstrgen literal '"/dev/ptmx"'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frag, err := literal.Expand(args[0], token.Position{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), frag.Code)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), frag.Buffer.Hex())

			return nil
		},
	}
}
