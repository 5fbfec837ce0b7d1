package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"quill/internal/app"
	"quill/internal/installer"
	"quill/internal/ui"
	"quill/pkg/adapterapi"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		var ex ExitCoder
		if errors.As(err, &ex) {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

// reportError prints err followed by any hints attached along the way.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, ui.Render(ui.Error, "Error: ")+err.Error())
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintln(w, ui.HintLine(h))
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool
	var verbose bool

	newSvc := func() (*app.Service, error) {
		return app.New(app.Options{
			ConfigPath: configPath,
			Verbose:    verbose,
			Confirm:    ui.ConfirmRemoval,
		})
	}

	cmd := &cobra.Command{
		Use:           "quill",
		Short:         "Install skill and command modules into AI assistants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newInstallCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newUninstallCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newUpdateCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newListCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newModCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(newSvc, &jsonOutput))

	return cmd
}

func newInstallCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var assistant string
	var scope string
	cmd := &cobra.Command{
		Use:     "install <module> [project_path]",
		Aliases: []string{"i", "add"},
		Short:   "Install a module into assistants",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			req := installer.InstallRequest{
				Module:    args[0],
				Assistant: adapterapi.Assistant(assistant),
				Scope:     adapterapi.Scope(scope),
			}
			if len(args) == 2 {
				req.ProjectPath = args[1]
			}
			report, err := svc.Install(context.Background(), req)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, report, "")
			}
			ui.RenderInstall(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&assistant, "assistant", "a", "", "claude-code|gemini-cli|cursor (default: every enabled assistant)")
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "user|project (default from config)")
	return cmd
}

func newUninstallCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var assistant string
	var scope string
	var force bool
	cmd := &cobra.Command{
		Use:     "uninstall <module> [project_path]",
		Aliases: []string{"un", "rm"},
		Short:   "Remove a module's installations",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			req := installer.UninstallRequest{
				Module:    args[0],
				Assistant: adapterapi.Assistant(assistant),
				Scope:     adapterapi.Scope(scope),
				Force:     force,
			}
			if len(args) == 2 {
				req.ProjectPath = args[1]
			}
			report, err := svc.Uninstall(context.Background(), req)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, report, "")
			}
			ui.RenderUninstall(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&assistant, "assistant", "a", "", "only this assistant")
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "only this scope")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove every match without confirmation")
	return cmd
}

func newUpdateCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var assistant string
	cmd := &cobra.Command{
		Use:     "update [module]",
		Aliases: []string{"up", "refresh"},
		Short:   "Regenerate installed artifacts from the current modules",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			req := installer.UpdateRequest{Assistant: adapterapi.Assistant(assistant)}
			if len(args) == 1 {
				req.Module = args[0]
			}
			report, err := svc.Update(context.Background(), req)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, report, "")
			}
			ui.RenderUpdate(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&assistant, "assistant", "a", "", "only this assistant")
	return cmd
}

func newListCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var assistant string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed modules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			groups, err := svc.List(adapterapi.Assistant(assistant))
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, groups, "")
			}
			ui.RenderList(os.Stdout, groups)
			return nil
		},
	}
	cmd.Flags().StringVarP(&assistant, "assistant", "a", "", "only this assistant")
	return cmd
}

func newDoctorCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var enableDetected bool
	var strict bool
	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"diag", "checkup"},
		Short:   "Run diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if enableDetected {
				enabled, err := svc.EnableDetectedAssistants()
				if err != nil {
					return err
				}
				if !*jsonOutput && len(enabled) > 0 {
					fmt.Println(ui.SuccessLine(fmt.Sprintf("enabled detected assistants: %v", enabled)))
				}
			}
			report := svc.DoctorRun(context.Background())
			if *jsonOutput {
				if err := print(true, report, ""); err != nil {
					return err
				}
			} else {
				ui.RenderDoctor(os.Stdout, report)
			}
			if strict && !report.Healthy {
				return &exitError{code: 3, msg: "doctor found errors"}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enableDetected, "enable-detected", false, "enable detected assistants in config")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit 3 when errors are found")
	return cmd
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
