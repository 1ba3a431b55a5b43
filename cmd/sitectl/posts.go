package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List the posts visible in a locale",
	Long: `List the posts a visitor would see on the blog index, newest first.

Examples:
  sitectl posts --locale hk
  sitectl posts --locale tw --category Operations --json`,
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().StringP("locale", "l", "", "locale code (default: the site default)")
	postsCmd.Flags().StringP("category", "c", "", "only posts in this category")
	postsCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, _ []string) error {
	c, _, err := content()
	if err != nil {
		return err
	}
	defer c.Close()

	loc, _ := cmd.Flags().GetString("locale")
	category, _ := cmd.Flags().GetString("category")
	asJSON, _ := cmd.Flags().GetBool("json")
	if loc == "" {
		loc = c.Resolver.Default()
	}
	if !c.Resolver.Supported(loc) {
		return fmt.Errorf("unsupported locale %q, expected one of %v", loc, c.Resolver.Codes())
	}

	posts := c.Posts.ListPosts(cmd.Context(), loc)
	if category != "" {
		posts = c.Posts.ListPostsByCategory(cmd.Context(), loc, category)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSLUG\tCATEGORY\tFEATURED\tTITLE")
	for _, p := range posts {
		date, cat := "-", "-"
		if p.PublishDate != nil {
			date = p.PublishDate.Format("2006-01-02")
		}
		if p.Category != nil {
			cat = *p.Category
		}
		featured := ""
		if p.IsFeatured {
			featured = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, p.Slug, cat, featured, p.Title)
	}
	return tw.Flush()
}
