package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/command/client"
	"bookshelf/internal/microservices/http-api/dto"
)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rate books (1 to 5)",
}

var listRatingsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			ratings, err := c.ListRatings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get ratings: %w", err)
			}
			if len(ratings) == 0 {
				fmt.Println("No ratings found.")
				return nil
			}
			for _, r := range ratings {
				fmt.Printf("ID: %d | book %d | %d/5 by %s", r.ID, r.BookID, r.Score, r.User)
				if r.Comment != "" {
					fmt.Printf(" | %s", r.Comment)
				}
				fmt.Println()
			}
			return nil
		})
	},
}

var rateCmd = &cobra.Command{
	Use:   "add [book-id] [score]",
	Short: "Rate a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := ratingInput(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			rating, err := c.CreateRating(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to rate book: %w", err)
			}
			success("Rating saved (ID %d)", rating.ID)
			return nil
		})
	},
}

var updateRatingCmd = &cobra.Command{
	Use:   "update [rating-id] [book-id] [score]",
	Short: "Change one of your ratings",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in, err := ratingInput(cmd, args[1], args[2])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			if _, err := c.UpdateRating(ctx, id, in); err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
			success("Rating %d updated", id)
			return nil
		})
	},
}

var deleteRatingCmd = &cobra.Command{
	Use:   "delete [rating-id]",
	Short: "Delete one of your ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			if err := c.DeleteRating(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rating: %w", err)
			}
			success("Rating %d deleted", id)
			return nil
		})
	},
}

// ratingInput leaves the range check to the server so its message is shown.
func ratingInput(cmd *cobra.Command, bookArg, scoreArg string) (dto.RatingInput, error) {
	bookID, err := parseID(bookArg)
	if err != nil {
		return dto.RatingInput{}, err
	}
	var score int
	if _, err := fmt.Sscan(scoreArg, &score); err != nil {
		return dto.RatingInput{}, fmt.Errorf("invalid score %q", scoreArg)
	}
	comment, _ := cmd.Flags().GetString("comment")
	return dto.RatingInput{BookID: bookID, Score: &score, Comment: comment}, nil
}

func init() {
	ratingCmd.AddCommand(listRatingsCmd, rateCmd, updateRatingCmd, deleteRatingCmd)
	rateCmd.Flags().StringP("comment", "c", "", "Optional comment")
	updateRatingCmd.Flags().StringP("comment", "c", "", "Optional comment")
}
