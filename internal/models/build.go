package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BuildKind tags the shape of a build classification as it appeared in the manifest.
type BuildKind int

const (
	// BuildSingle is a single string label, e.g. "build": "docker"
	BuildSingle BuildKind = iota + 1

	// BuildMany is an ordered list of labels, e.g. "build": ["npm", "docker"]
	BuildMany

	// BuildRaw is any other JSON value, passed through untouched
	BuildRaw
)

// BuildClassification holds the manifest "build" field.
//
// Internally it is always a list of labels; the original JSON shape is kept
// so the field can be written back verbatim.
type BuildClassification struct {
	kind   BuildKind
	labels []string
	raw    json.RawMessage
}

// SingleBuild creates a classification with one label.
func SingleBuild(label string) *BuildClassification {
	return &BuildClassification{kind: BuildSingle, labels: []string{label}}
}

// ManyBuild creates a classification with an ordered list of labels.
func ManyBuild(labels ...string) *BuildClassification {
	return &BuildClassification{kind: BuildMany, labels: append([]string{}, labels...)}
}

// ParseBuildClassification decodes a raw "build" value.
// It returns nil for null, an empty string or an empty document.
func ParseBuildClassification(data json.RawMessage) (*BuildClassification, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '"':
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return nil, fmt.Errorf("invalid build label: %w", err)
		}
		if label == "" {
			return nil, nil
		}
		return SingleBuild(label), nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("invalid build list: %w", err)
		}

		labels := make([]string, 0, len(items))
		allStrings := true
		for _, item := range items {
			var label string
			if err := json.Unmarshal(item, &label); err != nil {
				allStrings = false
				label = compactJSON(item)
			}
			labels = append(labels, label)
		}

		if allStrings {
			return ManyBuild(labels...), nil
		}
		return &BuildClassification{kind: BuildMany, labels: labels, raw: append(json.RawMessage{}, data...)}, nil

	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid build value: %s", string(data))
		}
		return &BuildClassification{
			kind:   BuildRaw,
			labels: []string{compactJSON(data)},
			raw:    append(json.RawMessage{}, data...),
		}, nil
	}
}

// Kind returns the shape the classification had in the manifest.
func (b *BuildClassification) Kind() BuildKind {
	if b == nil {
		return 0
	}
	return b.kind
}

// Labels returns the group labels in declaration order.
func (b *BuildClassification) Labels() []string {
	if b == nil {
		return nil
	}
	labels := make([]string, len(b.labels))
	copy(labels, b.labels)
	return labels
}

// IsZero reports whether there is no classification at all.
func (b *BuildClassification) IsZero() bool {
	return b == nil || b.kind == 0
}

func (b *BuildClassification) MarshalJSON() ([]byte, error) {
	if b.IsZero() {
		return []byte("null"), nil
	}
	if b.raw != nil {
		return b.raw, nil
	}
	if b.kind == BuildSingle {
		return json.Marshal(b.labels[0])
	}
	return json.Marshal(b.labels)
}

func (b *BuildClassification) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBuildClassification(data)
	if err != nil {
		return err
	}
	if parsed == nil {
		*b = BuildClassification{}
		return nil
	}
	*b = *parsed
	return nil
}

func compactJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}
