package inventory

import (
	"strings"

	"github.com/erazemk/gripcheck/internal/model"
)

// Summary counts equipment by status.
type Summary struct {
	Category string               `json:"category,omitempty"`
	Project  string               `json:"project,omitempty"`
	Total    int                  `json:"total"`
	ByStatus map[model.Status]int `json:"by_status"`
	Items    []model.Equipment    `json:"items"`
}

// Summary describes the equipment in category and on project. Empty
// arguments match everything; both match case-insensitively.
func (e *Engine) Summary(category, project string) Summary {
	category = strings.TrimSpace(category)
	project = strings.TrimSpace(project)

	s := Summary{
		Category: category,
		Project:  project,
		ByStatus: make(map[model.Status]int),
		Items:    []model.Equipment{},
	}
	for _, it := range e.repo.List() {
		if category != "" && !strings.EqualFold(string(it.Category), category) {
			continue
		}
		if project != "" && !strings.EqualFold(it.CurrentProject, project) {
			continue
		}
		s.Total++
		s.ByStatus[it.Status]++
		s.Items = append(s.Items, it)
	}
	return s
}
