// Package naming maps (module, item) pairs to collision-safe artifact names
// and back.
//
// Unprefix cannot tell a legacy record that never carried the prefix from a
// bare name that merely lacks it; both resolve to the input unchanged. An item
// whose own name begins with "<module>-" loses that part on the way back.
package naming

import "strings"

const separator = "-"

// Prefixed returns the artifact name for item inside module.
func Prefixed(module, item string) string {
	return module + separator + item
}

// Unprefix strips one leading "<module>-" from name, if present.
func Unprefix(module, name string) string {
	if rest, ok := strings.CutPrefix(name, module+separator); ok {
		return rest
	}
	return name
}

// CommandName rebuilds the on-disk stem for a command. Records keep raw
// command names, so every use site derives the prefix here.
func CommandName(module, command string) string {
	return Prefixed(module, command)
}
