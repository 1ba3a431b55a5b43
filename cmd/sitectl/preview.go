package main

import (
	"fmt"
	"io"
	"marketing-site/internal/service"
	"strings"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <page-id>",
	Short: "Render a Notion page the way the blog would",
	Long: `Fetch a page's block tree and print the sanitized HTML, a Markdown export or
the table of contents. The page does not need to be published.

Examples:
  sitectl preview 1c2f7a9e0b8d4e3f9a1b2c3d4e5f6a7b
  sitectl preview 1c2f7a9e0b8d4e3f9a1b2c3d4e5f6a7b --format outline`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("format", "f", "html", "output format: html, markdown or outline")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "html", "markdown", "outline":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	c, _, err := content()
	if err != nil {
		return err
	}
	defer c.Close()

	article, err := c.Articles.Preview(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if article.Incomplete {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: some nested blocks could not be fetched")
	}
	return writePreview(cmd.OutOrStdout(), article, format)
}

func writePreview(w io.Writer, article *service.Article, format string) error {
	switch format {
	case "markdown":
		md, err := article.Markdown()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	case "outline":
		for _, h := range article.Headings {
			fmt.Fprintf(w, "%s%s  #%s\n", strings.Repeat("  ", h.Indent()), h.Text, h.ID)
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, article.Body)
		return err
	}
}
