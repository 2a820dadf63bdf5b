package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"financehub/confs"
	"financehub/entities"
	"financehub/services"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

var (
	feedCategory string
	feedHashtag  string
	pollCategory string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(confs.Client())
		return listFeed(cmd.Context(), os.Stdout, a.posts, services.PostFilter{
			Category: feedCategory,
			Hashtag:  feedHashtag,
		})
	},
}

var pollsCmd = &cobra.Command{
	Use:   "polls",
	Short: "List polls with their current results",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(confs.Client())
		return listPolls(cmd.Context(), os.Stdout, a.polls, services.PollFilter{Category: pollCategory})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories posts and polls can belong to",
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Label"})
		for _, c := range entities.Categories {
			table.Append([]string{c.ID, c.Label})
		}
		table.Render()
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedCategory, "category", "c", entities.CategoryAll, "only show posts in this category")
	feedCmd.Flags().StringVar(&feedHashtag, "tag", "", "only show posts carrying this hashtag")
	pollsCmd.Flags().StringVarP(&pollCategory, "category", "c", entities.CategoryAll, "only show polls in this category")

	rootCmd.AddCommand(feedCmd, pollsCmd, categoriesCmd)
}

type postLister interface {
	GetPosts(ctx context.Context, f services.PostFilter) ([]entities.Post, error)
}

type pollLister interface {
	GetPolls(ctx context.Context, f services.PollFilter) ([]entities.Poll, error)
}

func listFeed(ctx context.Context, w io.Writer, posts postLister, f services.PostFilter) error {
	list, err := posts.GetPosts(ctx, f)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No posts yet.")
		return nil
	}
	renderPosts(w, list)
	return nil
}

func listPolls(ctx context.Context, w io.Writer, polls pollLister, f services.PollFilter) error {
	list, err := polls.GetPolls(ctx, f)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No polls yet.")
		return nil
	}
	renderPolls(w, list)
	return nil
}

func renderPosts(w io.Writer, posts []entities.Post) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Author", "Category", "Post", "Tags", "Likes", "Comments", "Posted"})
	for _, p := range posts {
		table.Append([]string{
			authorName(p.User),
			entities.CategoryLabel(p.Category),
			truncate(p.Content, 60),
			tagList(p.Hashtags),
			strconv.Itoa(p.LikesCount),
			strconv.Itoa(p.CommentsCount),
			p.CreatedAt.Local().Format(timeLayout),
		})
	}
	table.Render()
}

// renderPolls prints one row per option so results line up under each poll.
func renderPolls(w io.Writer, polls []entities.Poll) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Question", "Category", "Option", "Votes", "Share"})
	for _, p := range polls {
		for i, o := range p.Options {
			question, category := "", ""
			if i == 0 {
				question, category = truncate(p.Question, 50), entities.CategoryLabel(p.Category)
			}
			table.Append([]string{
				question,
				category,
				o.Text,
				strconv.Itoa(o.Votes),
				share(o.Votes, p.TotalVotes),
			})
		}
	}
	table.Render()
}

func authorName(u *entities.User) string {
	if u == nil || u.Username == "" {
		return "unknown"
	}
	return "@" + u.Username
}

func tagList(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

func share(votes, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(votes)*100/float64(total))
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
