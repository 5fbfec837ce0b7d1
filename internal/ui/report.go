package ui

import (
	"fmt"
	"io"
	"strings"

	"quill/internal/doctor"
	"quill/internal/installer"
	"quill/internal/registry"
)

// Describe names where an installation lives, e.g. "cursor (project: /src/app)".
func Describe(inst registry.Installation) string {
	if inst.ProjectPath != "" {
		return fmt.Sprintf("%s (%s: %s)", inst.Assistant, inst.Scope, inst.ProjectPath)
	}
	return fmt.Sprintf("%s (%s)", inst.Assistant, inst.Scope)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func itemLine(it installer.ItemResult) string {
	label := fmt.Sprintf("%s %s", it.Kind, it.Item)
	if it.Name != "" && it.Name != it.Item {
		label += " -> " + it.Name
	}
	switch it.Status {
	case installer.ItemInstalled, installer.ItemRemoved:
		return SuccessLine(label)
	case installer.ItemMissing:
		return WarningLine(label + ": " + it.Reason)
	default:
		return ErrorLine(label + ": " + it.Reason)
	}
}

func RenderInstall(w io.Writer, r installer.InstallReport) {
	if r.NoItems {
		fmt.Fprintln(w, WarningLine(fmt.Sprintf("module %s defines no skills or commands; nothing to install", r.Module)))
		return
	}
	for _, a := range r.Assistants {
		fmt.Fprintln(w, Heading(fmt.Sprintf("%s (%s)", a.Assistant, r.Scope)))
		if a.SkillsSkipped {
			fmt.Fprintln(w, WarningLine("skills skipped: "+a.SkipReason))
			if a.SkipHint != "" {
				fmt.Fprintln(w, HintLine(a.SkipHint))
			}
		}
		if a.SkillPathError != "" {
			fmt.Fprintln(w, ErrorLine("skills: "+a.SkillPathError))
		}
		if a.CommandPathError != "" {
			fmt.Fprintln(w, ErrorLine("commands: "+a.CommandPathError))
		}
		for _, it := range a.Items {
			fmt.Fprintln(w, itemLine(it))
		}
		if a.Outcome == installer.OutcomeNothing {
			fmt.Fprintln(w, InfoLine("nothing installed, no record written"))
		}
	}
	fmt.Fprintf(w, "installed %s of %s across %s\n", plural(r.Installed, "item"), r.Module, plural(len(r.Assistants), "assistant"))
}

func RenderUpdate(w io.Writer, r installer.UpdateReport) {
	if r.NoMatches {
		fmt.Fprintln(w, "no installations to update")
		return
	}
	for _, rec := range r.Records {
		where := rec.Installation.Module + " " + Describe(rec.Installation)
		switch rec.Status {
		case installer.RecordUpdated:
			fmt.Fprintln(w, SuccessLine("updated "+where))
		case installer.RecordEmptied:
			fmt.Fprintln(w, WarningLine("removed "+where+": nothing left to install"))
		case installer.RecordStale:
			fmt.Fprintln(w, WarningLine("stale "+where+": "+rec.Reason))
			fmt.Fprintln(w, HintLine(fmt.Sprintf("quill uninstall %s %s -a %s", rec.Installation.Module, rec.Installation.ProjectPath, rec.Installation.Assistant)))
		case installer.RecordModuleMissing, installer.RecordModuleInvalid:
			fmt.Fprintln(w, WarningLine("skipped "+where+": "+rec.Reason))
			for _, p := range rec.Problems {
				fmt.Fprintln(w, InfoLine(p))
			}
		default:
			fmt.Fprintln(w, ErrorLine("failed "+where+": "+rec.Reason))
		}
		if rec.SkillsSkipped {
			fmt.Fprintln(w, "  "+WarningLine("skills skipped: "+rec.SkipReason))
			if rec.SkipHint != "" {
				fmt.Fprintln(w, HintLine(rec.SkipHint))
			}
		}
		for _, it := range rec.Items {
			if it.Status != installer.ItemInstalled {
				fmt.Fprintln(w, "  "+itemLine(it))
			}
		}
	}
	fmt.Fprintf(w, "updated %s, %d stale\n", plural(r.Updated, "installation"), r.Stale)
}

func RenderUninstall(w io.Writer, r installer.UninstallReport) {
	switch {
	case r.NoMatches:
		fmt.Fprintf(w, "no installations of %s match\n", r.Module)
		return
	case r.Cancelled:
		fmt.Fprintf(w, "uninstall cancelled; %s of %s left in place\n", plural(len(r.Matches), "installation"), r.Module)
		fmt.Fprintln(w, HintLine("use -f to remove every match without confirmation"))
		return
	}
	for _, rm := range r.Removed {
		fmt.Fprintln(w, Heading(Describe(rm.Installation)))
		for _, it := range rm.Items {
			fmt.Fprintln(w, itemLine(it))
		}
		if rm.CacheRemoved != "" {
			fmt.Fprintln(w, InfoLine("removed cached module "+rm.CacheRemoved))
		}
		for _, e := range rm.Errors {
			fmt.Fprintln(w, ErrorLine(e))
		}
	}
	fmt.Fprintf(w, "uninstalled %s from %s\n", r.Module, plural(len(r.Removed), "installation"))
}

func RenderList(w io.Writer, groups []installer.ModuleGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no modules installed")
		return
	}
	for _, g := range groups {
		fmt.Fprintln(w, Heading(g.Module))
		for _, inst := range g.Installations {
			fmt.Fprintln(w, InfoLine(Describe(inst)))
			if len(inst.Skills) > 0 {
				fmt.Fprintln(w, "      skills:   "+strings.Join(inst.Skills, ", "))
			}
			if len(inst.Commands) > 0 {
				fmt.Fprintln(w, "      commands: "+strings.Join(inst.Commands, ", "))
			}
		}
	}
}

func RenderDoctor(w io.Writer, r doctor.Report) {
	if len(r.Findings) == 0 {
		fmt.Fprintln(w, SuccessLine("healthy"))
	}
	for _, f := range r.Findings {
		msg := fmt.Sprintf("[%s] %s", f.Code, f.Message)
		if f.Level == "error" {
			fmt.Fprintln(w, ErrorLine(msg))
		} else {
			fmt.Fprintln(w, WarningLine(msg))
		}
	}
	fmt.Fprintf(w, "%s, %d stale\n", plural(r.Installations, "installation"), r.StaleInstallations)
	if len(r.DetectedAssistants) > 0 {
		fmt.Fprintln(w, Render(Muted, "detected: "+strings.Join(r.DetectedAssistants, ", ")))
	}
}
