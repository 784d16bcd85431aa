package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yewfence/mdblog/internal/post"
)

// postFlags are the frontmatter fields new and edit accept.
type postFlags struct {
	title   string
	author  string
	date    string
	summary string
	status  string
	note    string
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "post title (default: first heading of the body)")
	cmd.Flags().StringVar(&f.author, "author", "", "post author")
	cmd.Flags().StringVar(&f.date, "date", "", "publication date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.summary, "summary", "", "one-line summary")
	cmd.Flags().StringVar(&f.status, "status", "", "published or hidden")
	cmd.Flags().StringVar(&f.note, "note", "", "private note, never shown to visitors")
}

func (f *postFlags) validate() error {
	if f.status != "" {
		if _, ok := post.ParseStatus(f.status); !ok {
			return fmt.Errorf("invalid status %q: want published or hidden", f.status)
		}
	}
	if strings.TrimSpace(f.date) != "" {
		if _, err := time.Parse(post.DateLayout, strings.TrimSpace(f.date)); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", f.date)
		}
	}
	return nil
}

// readBody reads the body from a file, or from stdin for "" and "-".
func readBody(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// postPath accepts a post's file name with or without the .md extension.
func postPath(arg string) string {
	if strings.HasSuffix(arg, ".md") {
		return arg
	}
	return arg + ".md"
}

// reindexPost refreshes one post in the index after a write.
func (b *blog) reindexPost(relPath string) error {
	absPath, err := b.store.AbsPath(relPath)
	if err != nil {
		return err
	}
	return b.indexer.IndexFile(absPath)
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	var flags postFlags

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a post",
		Long: `Create a post from a Markdown file, or from stdin when no file is given.
Without --title the first heading of the body becomes the title. New
posts are hidden unless --status published is given.

Examples:
  mdblog new draft.md
  mdblog new --title "Hello" --status published < hello.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := flags.validate(); err != nil {
				return err
			}

			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			body, err := readBody(cmd, file)
			if err != nil {
				return err
			}

			d := post.Draft{
				Title:   flags.title,
				Author:  flags.author,
				Date:    flags.date,
				Summary: flags.summary,
				Status:  flags.status,
				Note:    flags.note,
			}
			if strings.TrimSpace(body) != "" {
				d.Body = &body
			}

			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			p, err := b.store.Create(d)
			if err != nil {
				return err
			}
			if err := b.reindexPost(p.Path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.Path)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    postFlags
		bodyFile string
	)

	cmd := &cobra.Command{
		Use:   "edit <post>",
		Short: "Change a post's fields or body",
		Long: `Change the frontmatter fields of a post, or replace its body.
Fields without a flag keep their current value.

Examples:
  mdblog edit hello --status published
  mdblog edit hello.md --summary ""
  mdblog edit hello --body - < hello.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := flags.validate(); err != nil {
				return err
			}

			e := post.Edit{
				Title:  flags.title,
				Author: flags.author,
				Date:   flags.date,
				Status: flags.status,
			}
			if cmd.Flags().Changed("summary") {
				e.Summary = &flags.summary
			}
			if cmd.Flags().Changed("note") {
				e.Note = &flags.note
			}
			if cmd.Flags().Changed("body") {
				body, err := readBody(cmd, bodyFile)
				if err != nil {
					return err
				}
				e.Body = &body
			}

			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			p, err := b.store.Update(postPath(args[0]), e)
			if err != nil {
				return err
			}
			if err := b.reindexPost(p.Path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.Path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&bodyFile, "body", "", "replace the body with this file (- for stdin)")

	return cmd
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <post>",
		Short: "Print a post's rendered HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			relPath := postPath(args[0])
			if err := b.reindexPost(relPath); err != nil {
				return err
			}
			html, err := b.indexer.Rendered(relPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Long: `List posts as a visitor sees them: published posts, newest first.
With --all hidden posts are listed too and marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			posts, err := b.store.List()
			if err != nil {
				return fmt.Errorf("list posts: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, p := range post.Visible(posts, all) {
				mark := ""
				if p.Hidden() {
					mark = "  [hidden]"
				}
				fmt.Fprintf(out, "%s  %s  %s%s\n", p.Date.Format(post.DateLayout), p.Path, p.Title, mark)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden posts")

	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post>",
		Short: "Delete a post and drop it from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			relPath := postPath(args[0])
			if err := b.store.Delete(relPath); err != nil {
				return err
			}
			absPath, err := b.store.AbsPath(relPath)
			if err != nil {
				return err
			}
			if err := b.indexer.RemoveFile(absPath); err != nil {
				return fmt.Errorf("unindex %s: %w", relPath, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "deleted", relPath)
			return nil
		},
	}
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index and HTML cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			if err := b.indexer.Rebuild(); err != nil {
				return err
			}
			paths, err := b.db.Paths()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d posts\n", len(paths))
			return nil
		},
	}
}
