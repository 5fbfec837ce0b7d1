package installer

import (
	"github.com/samber/lo"

	"quill/internal/registry"
	"quill/pkg/adapterapi"
)

// List groups installations by module in first-appearance order.
func (s *Service) List(assistant adapterapi.Assistant) []ModuleGroup {
	records := s.Registry.Find(registry.Filter{Assistant: string(assistant)})
	names := lo.Uniq(lo.Map(records, func(r registry.Installation, _ int) string { return r.Module }))
	return lo.Map(names, func(name string, _ int) ModuleGroup {
		return ModuleGroup{
			Module: name,
			Installations: lo.Filter(records, func(r registry.Installation, _ int) bool {
				return r.Module == name
			}),
		}
	})
}
