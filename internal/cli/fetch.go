package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/postbrowser/internal/config"
	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/postapi"
)

// FetchCommand looks up a single post from the command line.
type FetchCommand struct {
	Site    string
	Tags    string
	Page    int
	ID      int64
	Timeout time.Duration

	// Registry overrides the built-in sites.
	Registry *postapi.Registry
	Out      io.Writer
}

// NewFetchCommand creates a new FetchCommand
func NewFetchCommand() *FetchCommand {
	return &FetchCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *FetchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)

	fs.StringVar(&cmd.Site, "site", string(entities.SiteRule34), "Site to query")
	fs.StringVar(&cmd.Tags, "tags", "", "Space separated tags")
	fs.IntVar(&cmd.Page, "page", 0, "Zero-based result index")
	fs.Int64Var(&cmd.ID, "id", 0, "Fetch a post by id instead of by tags")
	fs.DurationVar(&cmd.Timeout, "timeout", 30*time.Second, "Overall timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fetch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Look up one post and print it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s fetch -site rule34 -tags \"cat cute\" -page 3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s fetch -site gelbooru -id 123456\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Page < 0 {
		return errors.New("-page must not be negative")
	}
	return nil
}

// Run executes the fetch command
func (cmd *FetchCommand) Run() error {
	registry := cmd.Registry
	if registry == nil {
		cfg := config.NewConfig()
		extraSites, err := postapi.LoadExtraSites(cfg.Sites.File)
		if err != nil {
			return err
		}
		registry, err = postapi.NewDefaultRegistry(postapi.Options{
			UserAgent:       cfg.Sites.UserAgent,
			RequestTimeout:  cfg.Sites.RequestTimeout,
			RequestInterval: cfg.Sites.RequestInterval,
			MaxSuggestions:  cfg.Autocomplete.MaxSuggestions,
		}, cfg.Sites.Enabled, extraSites...)
		if err != nil {
			return err
		}
	}

	client, err := registry.Lookup(cmd.Site)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	var post *entities.Post
	if cmd.ID > 0 {
		post, err = client.FetchByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if post == nil {
			fmt.Fprintf(cmd.Out, "No post %d on %s.\n", cmd.ID, client.DisplayName())
			return nil
		}
		printPost(cmd.Out, client, post, "")
		return nil
	}

	count, err := client.FetchCount(ctx, cmd.Tags)
	if err != nil {
		return err
	}
	if max, ok := client.MaxCount(); ok && count > max {
		count = max
	}
	if count == 0 {
		fmt.Fprintf(cmd.Out, "No posts found for %s: %s.\n", client.DisplayName(), cmd.Tags)
		return nil
	}

	page := cmd.Page % count
	post, err = client.FetchByTagsAndPage(ctx, cmd.Tags, page)
	if err != nil {
		return err
	}
	if post == nil {
		fmt.Fprintf(cmd.Out, "No post at %d for %s: %s.\n", page, client.DisplayName(), cmd.Tags)
		return nil
	}
	printPost(cmd.Out, client, post, fmt.Sprintf("%s of %s", humanize.Comma(int64(page+1)), humanize.Comma(int64(count))))
	return nil
}

func printPost(out io.Writer, client postapi.Client, post *entities.Post, position string) {
	fmt.Fprintf(out, "%s #%d", client.DisplayName(), post.ID)
	if position != "" {
		fmt.Fprintf(out, " (%s)", position)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Link:   %s\n", client.PostURL(post.ID))
	if post.FileURL != "" {
		fmt.Fprintf(out, "  File:   %s\n", post.FileURL)
	}
	if post.CreatedAt != nil {
		fmt.Fprintf(out, "  Posted: %s\n", humanize.Time(*post.CreatedAt))
	}
	fmt.Fprintf(out, "  Score:  %s\n", humanize.Comma(int64(post.Score)))
	if post.Rating != "" {
		fmt.Fprintf(out, "  Rating: %s\n", post.Rating)
	}
	if len(post.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:   %s\n", strings.Join(post.Tags, " "))
	}
}
