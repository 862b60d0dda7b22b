package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default fiber.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing fiber.json")

	return cmd
}

func runInit(dir string, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("F014").
			WithDetail(config.ConfigFileName + " already exists in " + dir).
			WithSuggestion("Use --force to overwrite it.")
	}
	path := filepath.Join(dir, config.ConfigFileName)
	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("wrote %s", path)
	info("run `fiberdemo run -c %s` to use it", dir)
	return nil
}
