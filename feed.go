package doc2md

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedConverter renders RSS and Atom feeds as Markdown, one section per
// item. HTML item bodies are converted; plain bodies pass through.
type FeedConverter struct{}

// NewFeedConverter creates a new FeedConverter.
func NewFeedConverter() *FeedConverter {
	return &FeedConverter{}
}

func (c *FeedConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var b strings.Builder

	if feed.Title != "" {
		fmt.Fprintf(&b, "# %s\n", feed.Title)
	}
	if feed.Description != "" {
		fmt.Fprintf(&b, "%s\n", feed.Description)
	}
	b.WriteString("\n")

	for _, item := range feed.Items {
		if item.Title != "" {
			fmt.Fprintf(&b, "## %s\n", item.Title)
		}

		if item.Published != "" {
			fmt.Fprintf(&b, "Published: %s\n\n", item.Published)
		} else if item.Updated != "" {
			fmt.Fprintf(&b, "Updated: %s\n\n", item.Updated)
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content != "" {
			if strings.Contains(content, "<") && strings.Contains(content, ">") {
				if md, err := htmlToMarkdown(content); err == nil {
					content = md
				}
			}
			b.WriteString(content)
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return &Result{
		Markdown: b.String(),
		Title:    feed.Title,
	}, nil
}
