package installer

import "quill/internal/registry"

type ItemKind string

const (
	KindSkill   ItemKind = "skill"
	KindCommand ItemKind = "command"
)

type ItemStatus string

const (
	ItemInstalled ItemStatus = "installed"
	ItemMissing   ItemStatus = "missing"
	ItemFailed    ItemStatus = "failed"
	ItemRemoved   ItemStatus = "removed"
)

// ItemResult is the outcome for one skill or command.
type ItemResult struct {
	Kind   ItemKind   `json:"kind"`
	Item   string     `json:"item"`
	Name   string     `json:"name"`
	Status ItemStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// Outcome is the terminal install state for one assistant.
type Outcome string

const (
	OutcomeInstalled Outcome = "installed"
	OutcomePartial   Outcome = "partial"
	OutcomeNothing   Outcome = "nothing"
)

type AssistantReport struct {
	Assistant        string       `json:"assistant"`
	Outcome          Outcome      `json:"outcome"`
	SkillPath        string       `json:"skillPath,omitempty"`
	CommandPath      string       `json:"commandPath,omitempty"`
	SkillsSkipped    bool         `json:"skillsSkipped,omitempty"`
	SkipReason       string       `json:"skipReason,omitempty"`
	SkipHint         string       `json:"skipHint,omitempty"`
	SkillPathError   string       `json:"skillPathError,omitempty"`
	CommandPathError string       `json:"commandPathError,omitempty"`
	Items            []ItemResult `json:"items"`
	Installed        int          `json:"installed"`
}

type InstallReport struct {
	Module      string            `json:"module"`
	Scope       string            `json:"scope"`
	ProjectPath string            `json:"projectPath,omitempty"`
	NoItems     bool              `json:"noItems,omitempty"`
	Assistants  []AssistantReport `json:"assistants"`
	Installed   int               `json:"installed"`
}

type RecordStatus string

const (
	RecordUpdated       RecordStatus = "updated"
	RecordEmptied       RecordStatus = "emptied"
	RecordStale         RecordStatus = "stale"
	RecordModuleMissing RecordStatus = "module-missing"
	RecordModuleInvalid RecordStatus = "module-invalid"
	RecordFailed        RecordStatus = "failed"
)

// RecordUpdate is the outcome of refreshing one installation record.
type RecordUpdate struct {
	Installation  registry.Installation `json:"installation"`
	Status        RecordStatus          `json:"status"`
	Reason        string                `json:"reason,omitempty"`
	Problems      []string              `json:"problems,omitempty"`
	SourcePath    string                `json:"sourcePath,omitempty"`
	SkillsSkipped bool                  `json:"skillsSkipped,omitempty"`
	SkipReason    string                `json:"skipReason,omitempty"`
	SkipHint      string                `json:"skipHint,omitempty"`
	Items         []ItemResult          `json:"items,omitempty"`
}

type UpdateReport struct {
	Records   []RecordUpdate `json:"records"`
	Updated   int            `json:"updated"`
	Stale     int            `json:"stale"`
	NoMatches bool           `json:"noMatches,omitempty"`
}

// RecordRemoval is the outcome of uninstalling one installation record.
type RecordRemoval struct {
	Installation registry.Installation `json:"installation"`
	Items        []ItemResult          `json:"items"`
	CacheRemoved string                `json:"cacheRemoved,omitempty"`
	Errors       []string              `json:"errors,omitempty"`
}

type UninstallReport struct {
	Module    string                  `json:"module"`
	Matches   []registry.Installation `json:"matches"`
	NoMatches bool                    `json:"noMatches,omitempty"`
	Cancelled bool                    `json:"cancelled,omitempty"`
	Removed   []RecordRemoval         `json:"removed"`
}

// ModuleGroup lists the installations of one module.
type ModuleGroup struct {
	Module        string                  `json:"module"`
	Installations []registry.Installation `json:"installations"`
}

func itemResult(kind ItemKind, item, name string, ok bool, err error) ItemResult {
	r := ItemResult{Kind: kind, Item: item, Name: name, Status: ItemInstalled}
	switch {
	case err != nil:
		r.Status = ItemFailed
		r.Reason = err.Error()
	case !ok:
		r.Status = ItemMissing
		r.Reason = "source not found"
	}
	return r
}

func removalResult(kind ItemKind, item, name string, err error) ItemResult {
	r := ItemResult{Kind: kind, Item: item, Name: name, Status: ItemRemoved}
	if err != nil {
		r.Status = ItemFailed
		r.Reason = err.Error()
	}
	return r
}
