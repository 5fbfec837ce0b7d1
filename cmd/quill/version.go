package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"quill/internal/app"
	"quill/internal/config"
)

// newVersionCmd never builds the service, so it works without a config.
func newVersionCmd(_ func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version":  config.Version,
				"commit":   config.Commit,
				"date":     config.Date,
				"platform": runtime.GOOS + "/" + runtime.GOARCH,
			}
			return print(*jsonOutput, info, fmt.Sprintf("quill %s (%s, built %s, %s)", config.Version, config.Commit, config.Date, info["platform"]))
		},
	}
}
