package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/memhost"
	"github.com/vango-dev/fiber/pkg/live"
)

type renderOptions struct {
	title    string
	items    []string
	pretty   bool
	ops      bool
	publish  string
	region   string
	endpoint string

	// publisher receives the rendered page when set.
	publisher live.Publisher
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo synchronously and print the host tree",
		Long: `Render mounts the demo app and drains every render cycle
synchronously, without an idle loop.

Examples:
  fiberdemo render
  fiberdemo render --add milk --add eggs --ops
  fiberdemo render --publish s3://my-bucket/demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.publish != "" {
				bucket, prefix, err := live.ParseS3URL(opts.publish)
				if err != nil {
					return err
				}
				client := live.NewS3Client(opts.region, opts.endpoint)
				opts.publisher = live.NewS3Publisher(client, bucket, prefix)
			}
			return runRender(os.Stdout, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "Todos", "Application title")
	cmd.Flags().StringArrayVarP(&opts.items, "add", "a", nil, "Item to add through the form (repeatable)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "Indent the HTML output")
	cmd.Flags().BoolVar(&opts.ops, "ops", false, "Print the host mutation log")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "Also store the page in S3, as s3://bucket/prefix")
	cmd.Flags().StringVar(&opts.region, "region", config.DefaultRegion, "AWS region for --publish")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "S3-compatible endpoint URL for --publish")

	return cmd
}

func runRender(w io.Writer, opts renderOptions) error {
	h := memhost.New()
	root := fiber.NewRoot(h, memhost.NewScheduler(), fiber.WithLogger(discardLogger()))

	if err := scenario(syncDriver{root: root}, root, h, opts.title, opts.items); err != nil {
		return err
	}
	if err := printHost(w, h, opts.pretty, opts.ops); err != nil {
		return err
	}
	if opts.publisher == nil {
		return nil
	}

	page, err := live.StaticPage(opts.title, h.Container().InnerHTML())
	if err != nil {
		return err
	}
	location, err := opts.publisher.Publish(context.Background(), "index.html", page)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\npublished %s\n", location)
	return nil
}

func printHost(w io.Writer, h *memhost.Host, pretty, ops bool) error {
	if err := h.Container().WriteHTML(w, memhost.HTMLConfig{Pretty: pretty}); err != nil {
		return err
	}
	if !pretty {
		fmt.Fprintln(w)
	}
	if ops {
		fmt.Fprintf(w, "\n%d host operations:\n%s", len(h.Ops()), h.Log())
	}
	return nil
}
