package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/domain/book"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var req appbook.ListBooksRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, cleanup, err := InitializeBooks(opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := books.List.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), resp, terminalWidth())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Search, "search", "", "case-insensitive match on title or author")
	f.StringVar(&req.Genre, "genre", "", "Fiction | Non-Fiction | Sci-Fi | Other")
	f.StringVar(&req.Status, "status", "", "Available | Issued")
	f.IntVar(&req.Page, "page", 1, "page number, clamped to the last page")
	f.IntVar(&req.PageSize, "page-size", 0, "books per page (default dashboard.page_size)")
	return cmd
}

// draftFlags add和update共用的字段参数
type draftFlags struct {
	title  string
	author string
	genre  string
	year   int
	status string
}

func (f *draftFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "book author")
	fs.StringVar(&f.genre, "genre", "", "Fiction | Non-Fiction | Sci-Fi | Other")
	fs.IntVar(&f.year, "year", 0, "publication year")
	fs.StringVar(&f.status, "status", string(book.StatusAvailable), "Available | Issued")
}

func (f *draftFlags) draft() book.Draft {
	return book.Draft{
		Title:  f.title,
		Author: f.author,
		Genre:  book.Genre(f.genre),
		Year:   book.Year(f.year),
		Status: book.Status(f.status),
	}
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, cleanup, err := InitializeBooks(opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := books.Add.Execute(cmd.Context(), flags.draft())
			return reportMutation(cmd.OutOrStdout(), resp, err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, cleanup, err := InitializeBooks(opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := books.Update.Execute(cmd.Context(), args[0], flags.draft())
			return reportMutation(cmd.OutOrStdout(), resp, err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, cleanup, err := InitializeBooks(opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := books.Delete.Execute(cmd.Context(), args[0])
			return reportMutation(cmd.OutOrStdout(), resp, err)
		},
	}
}

// reportMutation 成功打印提示，失败返回带提示文案的错误
func reportMutation(w io.Writer, resp *appbook.MutationResponse, err error) error {
	if err != nil {
		appErr := apperrors.GetAppError(err)
		if len(appErr.Fields) > 0 {
			return fmt.Errorf("%s: %s", appErr.Message, strings.Join(appErr.Fields, ", "))
		}
		if resp != nil && resp.Notice.IsError() {
			return fmt.Errorf("%s: %w", resp.Notice.Message, err)
		}
		return err
	}

	fmt.Fprintln(w, resp.Notice.Message)
	if resp.Book != nil {
		fmt.Fprintf(w, "  id: %s  title: %s\n", resp.Book.ID, resp.Book.Title)
	}
	return nil
}
