package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/app"
	"quill/internal/ui"
)

func newModCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	modCmd := &cobra.Command{Use: "mod", Aliases: []string{"module", "modules"}, Short: "Manage the module store"}

	var name string
	addCmd := &cobra.Command{
		Use:   "add <dir>",
		Short: "Copy a module folder into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			info, err := svc.ModuleAdd(args[0], name)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, info, "")
			}
			fmt.Println(ui.SuccessLine(fmt.Sprintf("added module %s (%d skills, %d commands)", info.Name, len(info.Skills), len(info.Commands))))
			printProblems(info)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "store the module under this name")

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List modules in the store",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			mods, err := svc.ModuleList()
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, mods, "")
			}
			if len(mods) == 0 {
				fmt.Println("no modules in the store")
				fmt.Println(ui.HintLine("quill mod add <dir>"))
				return nil
			}
			for _, m := range mods {
				line := m.Name
				if m.Version != "" {
					line += "@" + m.Version
				}
				line += fmt.Sprintf("  skills=%d commands=%d installed=%d", len(m.Skills), len(m.Commands), m.Installed)
				if m.Valid {
					fmt.Println(ui.SuccessLine(line))
				} else {
					fmt.Println(ui.WarningLine(line + " (invalid)"))
				}
			}
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a module from the store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			info, err := svc.ModuleRemove(args[0])
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, info, "")
			}
			fmt.Println(ui.SuccessLine("removed module " + info.Name))
			if info.Installed > 0 {
				fmt.Println(ui.WarningLine(fmt.Sprintf("%d installations still reference %s", info.Installed, info.Name)))
				fmt.Println(ui.HintLine("quill uninstall " + info.Name))
			}
			return nil
		},
	}

	infoCmd := &cobra.Command{
		Use:     "info <name>",
		Aliases: []string{"show"},
		Short:   "Show a module's contents",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			info, err := svc.ModuleInfo(args[0])
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, info, "")
			}
			fmt.Println(ui.Heading(info.Name))
			if info.Version != "" {
				fmt.Println("  version:     " + info.Version)
			}
			if info.Description != "" {
				fmt.Println("  description: " + info.Description)
			}
			fmt.Println("  path:        " + info.Path)
			fmt.Println("  skills:      " + joinOrNone(info.Skills))
			fmt.Println("  commands:    " + joinOrNone(info.Commands))
			fmt.Printf("  installed:   %d\n", info.Installed)
			printProblems(info)
			return nil
		},
	}

	modCmd.AddCommand(addCmd, listCmd, removeCmd, infoCmd)
	return modCmd
}

func printProblems(info app.ModuleInfo) {
	for _, p := range info.Problems {
		fmt.Println(ui.WarningLine(p))
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
