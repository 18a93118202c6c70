package actions

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/turbo-projects/internal/models"
)

// DefaultProjectTemplate renders one project line of the summary.
const DefaultProjectTemplate = `{{ default .Path .Name }}{{ with .Version }}@{{ . }}{{ end }} ({{ .Path }})`

// Summary logs the grouped result, one log group per build label.
type Summary struct {
	tmpl *template.Template
}

// NewSummary parses the project line template; an empty text selects DefaultProjectTemplate.
// Templates can use the sprig function library.
func NewSummary(text string) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultProjectTemplate
	}

	tmpl, err := template.New("project").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}

	return &Summary{tmpl: tmpl}, nil
}

// Render renders the summary line of one project.
func (s *Summary) Render(project *models.ProjectInfo) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, project); err != nil {
		return "", fmt.Errorf("failed to render summary for %s: %w", project.Path, err)
	}
	return buf.String(), nil
}

// Write logs every group of result with one line per project.
func (s *Summary) Write(logger *Logger, result *models.GroupedResult) error {
	if result.Len() == 0 {
		logger.Info("No buildable projects found")
		return nil
	}

	for _, group := range result.Groups() {
		logger.StartGroup(fmt.Sprintf("📦 %s (%d project(s))", group.Label, len(group.Projects)))
		for _, project := range group.Projects {
			line, err := s.Render(project)
			if err != nil {
				logger.EndGroup()
				return err
			}
			logger.Info("%s", line)
		}
		logger.EndGroup()
	}

	return nil
}
