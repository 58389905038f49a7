package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/command/client"
	"bookshelf/internal/microservices/http-api/dto"
)

var genreCmd = &cobra.Command{
	Use:   "genre",
	Short: "Genre management commands",
}

var listGenresCmd = &cobra.Command{
	Use:   "list",
	Short: "List all genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			genres, err := c.ListGenres(ctx)
			if err != nil {
				return fmt.Errorf("failed to get genres: %w", err)
			}
			if len(genres) == 0 {
				fmt.Println("No genres found.")
				return nil
			}
			fmt.Printf("Genres (%d total):\n\n", len(genres))
			for _, g := range genres {
				fmt.Printf("ID: %d | Name: %s\n", g.ID, g.Name)
			}
			return nil
		})
	},
}

var createGenreCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			genre, err := c.CreateGenre(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to create genre: %w", err)
			}
			success("Genre created (ID %d)", genre.ID)
			return nil
		})
	},
}

var deleteGenreCmd = &cobra.Command{
	Use:   "delete [genre-id]",
	Short: "Delete a genre together with its books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			if err := c.DeleteGenre(ctx, id); err != nil {
				return fmt.Errorf("failed to delete genre: %w", err)
			}
			success("Genre %d deleted", id)
			return nil
		})
	},
}

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Author management commands",
}

var listAuthorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all authors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			authors, err := c.ListAuthors(ctx)
			if err != nil {
				return fmt.Errorf("failed to get authors: %w", err)
			}
			if len(authors) == 0 {
				fmt.Println("No authors found.")
				return nil
			}
			for _, a := range authors {
				fmt.Printf("ID: %d | %s (%s)\n", a.ID, a.Name, a.Nationality)
			}
			return nil
		})
	},
}

var createAuthorCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nationality, _ := cmd.Flags().GetString("nationality")
		in := dto.AuthorInput{Name: strings.Join(args, " "), Nationality: nationality}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			author, err := c.CreateAuthor(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create author: %w", err)
			}
			success("Author created (ID %d)", author.ID)
			return nil
		})
	},
}

var deleteAuthorCmd = &cobra.Command{
	Use:   "delete [author-id]",
	Short: "Delete an author together with their books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			if err := c.DeleteAuthor(ctx, id); err != nil {
				return fmt.Errorf("failed to delete author: %w", err)
			}
			success("Author %d deleted", id)
			return nil
		})
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

func init() {
	genreCmd.AddCommand(listGenresCmd, createGenreCmd, deleteGenreCmd)

	authorCmd.AddCommand(listAuthorsCmd, createAuthorCmd, deleteAuthorCmd)
	createAuthorCmd.Flags().StringP("nationality", "n", "", "Author nationality")
	createAuthorCmd.MarkFlagRequired("nationality")
}
