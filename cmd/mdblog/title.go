package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yewfence/mdblog/internal/markdown"
)

// errNoTitle makes title exit non-zero without printing anything.
var errNoTitle = errors.New("no title")

func newTitleCmd() *cobra.Command {
	var strip bool

	cmd := &cobra.Command{
		Use:   "title [file]",
		Short: "Print the title of a Markdown document",
		Long: `Print the text of the first heading of a Markdown file, or of stdin.
Exits with status 1 when the document has no heading.

With --strip, print the document without that heading instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			content, err := readBody(cmd, file)
			if err != nil {
				return err
			}

			if strip {
				fmt.Fprint(cmd.OutOrStdout(), markdown.StripFirstHeading(content))
				return nil
			}

			title, ok := markdown.ExtractTitle(content)
			if !ok {
				return errNoTitle
			}
			fmt.Fprintln(cmd.OutOrStdout(), title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strip, "strip", false, "print the document without its first heading")

	return cmd
}
