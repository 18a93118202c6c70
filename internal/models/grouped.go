package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProjectGroup is one build label and the projects classified under it.
type ProjectGroup struct {
	Label    string         `json:"label"`
	Projects []*ProjectInfo `json:"projects"`
}

// GroupedResult maps build labels to projects.
//
// Labels keep first-encounter order and projects keep the order in which
// they were added, so encoding the same input always yields the same bytes.
type GroupedResult struct {
	groups []*ProjectGroup
	index  map[string]int
}

// NewGroupedResult creates an empty result.
func NewGroupedResult() *GroupedResult {
	return &GroupedResult{index: make(map[string]int)}
}

// Add appends project to the group of every one of its labels.
// Projects without a build classification are ignored.
func (r *GroupedResult) Add(project *ProjectInfo) {
	if !project.IsBuildable() {
		return
	}

	for _, label := range project.Labels() {
		r.append(label, project)
	}
}

func (r *GroupedResult) append(label string, project *ProjectInfo) {
	if r.index == nil {
		r.index = make(map[string]int)
	}

	i, exists := r.index[label]
	if !exists {
		i = len(r.groups)
		r.index[label] = i
		r.groups = append(r.groups, &ProjectGroup{Label: label})
	}
	r.groups[i].Projects = append(r.groups[i].Projects, project)
}

// Labels returns the group labels in first-encounter order.
func (r *GroupedResult) Labels() []string {
	labels := make([]string, len(r.groups))
	for i, g := range r.groups {
		labels[i] = g.Label
	}
	return labels
}

// Get returns the projects of a label.
func (r *GroupedResult) Get(label string) ([]*ProjectInfo, bool) {
	i, ok := r.index[label]
	if !ok {
		return nil, false
	}
	return r.groups[i].Projects, true
}

// Groups returns the groups in first-encounter order.
func (r *GroupedResult) Groups() []*ProjectGroup {
	return r.groups
}

// Len returns the number of groups.
func (r *GroupedResult) Len() int {
	return len(r.groups)
}

// MarshalJSON encodes the result as an object keyed by label, in label order.
func (r *GroupedResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r.groups {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(g.Label)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal label %q: %w", g.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		projects, err := json.Marshal(g.Projects)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal group %q: %w", g.Label, err)
		}
		buf.Write(projects)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by label, preserving key order.
func (r *GroupedResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grouped result must be a JSON object")
	}

	*r = GroupedResult{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var projects []*ProjectInfo
		if err := dec.Decode(&projects); err != nil {
			return fmt.Errorf("failed to decode group %q: %w", label, err)
		}

		if _, exists := r.index[label]; !exists {
			r.index[label] = len(r.groups)
			r.groups = append(r.groups, &ProjectGroup{Label: label})
		}
		i := r.index[label]
		r.groups[i].Projects = append(r.groups[i].Projects, projects...)
	}

	_, err = dec.Token()
	return err
}
