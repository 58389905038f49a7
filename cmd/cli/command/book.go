package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/command/client"
	"bookshelf/internal/microservices/http-api/dto"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book management commands",
}

var listBooksCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			books, err := c.ListBooks(ctx)
			if err != nil {
				return fmt.Errorf("failed to get books: %w", err)
			}
			if len(books) == 0 {
				fmt.Println("No books found.")
				return nil
			}
			for _, b := range books {
				printBook(b)
			}
			return nil
		})
	},
}

var showBookCmd = &cobra.Command{
	Use:   "show [book-id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			book, err := c.GetBook(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get book: %w", err)
			}
			printBook(*book)
			return nil
		})
	},
}

var createBookCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new book",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := dto.BookInput{Title: strings.Join(args, " ")}
		in.ReleaseDate, _ = cmd.Flags().GetString("release-date")
		in.GenreID, _ = cmd.Flags().GetInt64("genre")
		in.AuthorID, _ = cmd.Flags().GetInt64("author")

		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			book, err := c.CreateBook(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create book: %w", err)
			}
			success("Book created (ID %d)", book.ID)
			return nil
		})
	},
}

var deleteBookCmd = &cobra.Command{
	Use:   "delete [book-id]",
	Short: "Delete one of your books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			if err := c.DeleteBook(ctx, id); err != nil {
				return fmt.Errorf("failed to delete book: %w", err)
			}
			success("Book %d deleted", id)
			return nil
		})
	},
}

var uploadBookCmd = &cobra.Command{
	Use:   "upload [book-id] [file]",
	Short: "Upload the file of one of your books",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			book, err := c.UploadBookFile(ctx, id, filepath.Base(args[1]), f)
			if err != nil {
				return fmt.Errorf("failed to upload file: %w", err)
			}
			success("Stored as %s", book.FileReference)
			return nil
		})
	},
}

func printBook(b dto.BookResponse) {
	avg := "-"
	if b.AverageRating != nil {
		avg = strconv.FormatFloat(*b.AverageRating, 'f', 2, 64)
	}
	fmt.Printf("ID: %d | %s (%s) | genre %d | author %d | by %s | rating %s\n",
		b.ID, b.Title, b.ReleaseDate, b.GenreID, b.AuthorID, b.Creator, avg)
}

func init() {
	bookCmd.AddCommand(listBooksCmd, showBookCmd, createBookCmd, deleteBookCmd, uploadBookCmd)

	createBookCmd.Flags().String("release-date", "", "Release date, YYYY-MM-DD")
	createBookCmd.Flags().Int64("genre", 0, "Genre ID")
	createBookCmd.Flags().Int64("author", 0, "Author ID")
	createBookCmd.MarkFlagRequired("release-date")
	createBookCmd.MarkFlagRequired("genre")
	createBookCmd.MarkFlagRequired("author")
}
