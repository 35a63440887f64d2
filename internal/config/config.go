// Package config defines the generator document model and its YAML loader.
//
// A document carries a macro table plus named dockerfile definitions. Each
// definition is a list of build stages, each stage a list of sections, each
// section a bag of optional directive fields. Single-stage and single-section
// documents simply omit the wrapping lists; the accessors below synthesize
// the implicit stage/section so the generator always walks the same shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Document is the root of the generator configuration.
type Document struct {
	// Help lines printed to the operator before generation starts.
	Help StringList `yaml:"help,omitempty"`
	// Macros maps a name to the string list a $name token expands to.
	Macros map[string][]string `yaml:"macros,omitempty"`
	// Dockerfiles holds the definitions keyed by artifact name.
	Dockerfiles map[string]*Definition `yaml:"dockerfiles,omitempty"`
	// Containers is the legacy key for Dockerfiles, kept for old documents.
	Containers map[string]*Definition `yaml:"containers,omitempty"`

	// Dir is the directory the document was loaded from. Copy-source
	// existence checks and artifact writes are relative to it.
	Dir string `yaml:"-"`
}

// Definitions returns the definition map regardless of which root key the
// document used. A nil result means there is nothing to generate.
func (d *Document) Definitions() map[string]*Definition {
	if len(d.Dockerfiles) > 0 {
		return d.Dockerfiles
	}
	return d.Containers
}

// Definition describes one Dockerfile to generate.
type Definition struct {
	Packager string     `yaml:"packager,omitempty"`
	Help     StringList `yaml:"help,omitempty"`
	Examples []string   `yaml:"examples,omitempty"`

	// Output look-and-feel flags.
	HelpDisable       bool `yaml:"help_disable,omitempty"`
	ReadmeDisable     bool `yaml:"readme_disable,omitempty"`
	BuildTraceDisable bool `yaml:"build_trace_disable,omitempty"`
	CommentsDisable   bool `yaml:"comments_disable,omitempty"`

	Stages []Stage `yaml:"stages,omitempty"`

	// A definition without explicit stages carries the stage fields inline.
	StageConfig `yaml:",inline"`
}

// EffectiveStages returns the explicit stages, or one anonymous stage
// wrapping the definition's own inline fields when none are given.
func (d *Definition) EffectiveStages() []Stage {
	if len(d.Stages) > 0 {
		return d.Stages
	}
	return []Stage{{Config: d.StageConfig}}
}

// Stage is one phase of a (possibly multi-stage) build: an optional name
// plus its configuration. In YAML a stage is a one-key mapping
// {name: config}; the loader flattens that into this explicit pair.
type Stage struct {
	Name   string
	Config StageConfig
}

// UnmarshalYAML decodes the one-key mapping form.
func (s *Stage) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: a stage must be a single-key mapping of name to stage config", node.Line)
	}
	if err := node.Content[0].Decode(&s.Name); err != nil {
		return fmt.Errorf("line %d: stage name: %w", node.Line, err)
	}
	if node.Content[1].Kind == yaml.MappingNode {
		if err := node.Content[1].Decode(&s.Config); err != nil {
			return fmt.Errorf("stage %q: %w", s.Name, err)
		}
	}
	return nil
}

// StageConfig holds the stage-level fields plus the inline section used when
// the stage does not declare explicit sections.
type StageConfig struct {
	// Base is an external image reference, or the name of a prior stage in
	// a multi-stage build.
	Base       string    `yaml:"base,omitempty"`
	Entrypoint string    `yaml:"entrypoint,omitempty"`
	Sections   []Section `yaml:"sections,omitempty"`

	Section `yaml:",inline"`
}

// EffectiveSections returns the explicit sections, or one implicit section
// wrapping the stage's own inline fields when none are given.
func (s *StageConfig) EffectiveSections() []Section {
	if len(s.Sections) > 0 {
		return s.Sections
	}
	return []Section{s.Section}
}

// Section is a bag of optional directive fields. The order fields appear in
// the document is irrelevant; directive ordering in the output is fixed by
// the generator pipeline.
type Section struct {
	// Label is an optional comment attached to the section marker key,
	// emitted as a section header when comments are enabled.
	Label string `yaml:"section,omitempty"`

	Expose  []string   `yaml:"expose,omitempty"`
	Env     []string   `yaml:"env,omitempty"`
	EnvExt  []EnvExt   `yaml:"env_ext,omitempty"`
	Volumes []string   `yaml:"volumes,omitempty"`
	Copy    []string   `yaml:"copy,omitempty"`
	CopyF   []string   `yaml:"copy_f,omitempty"`
	Shells  []FileSpec `yaml:"shells,omitempty"`
	Install []string   `yaml:"install,omitempty"`
	Files   []FileSpec `yaml:"files,omitempty"`
	Run     []string   `yaml:"run,omitempty"`
}

// EnvExt is the structured flavor of an environment entry.
type EnvExt struct {
	// Definition is the literal "NAME value" string.
	Definition string `yaml:"definition"`
	// Help lines rendered as leading comment lines and surfaced in
	// operator help when Publish is set.
	Help StringList `yaml:"help,omitempty"`
	// Publish marks the variable for inclusion in operator help.
	Publish bool `yaml:"publish,omitempty"`
}

// FileSpec describes an inline generated file or shell script.
type FileSpec struct {
	Filename string     `yaml:"filename"`
	Help     StringList `yaml:"help,omitempty"`
	Lines    []string   `yaml:"lines,omitempty"`
	Publish  bool       `yaml:"publish,omitempty"`
}

// StringList accepts either a single scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements the scalar-or-sequence form.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = StringList(items)
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\$[A-Za-z_][A-Za-z0-9_]*`)

// expandEnv expands $NAME and ${NAME} references against the process
// environment before the document is unmarshaled. Only names actually set
// in the environment are expanded: unset ${NAME} references must survive
// for generation-time variable substitution, and unset $name tokens must
// survive as macro references.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := string(m[1:])
		if name[0] == '{' {
			name = name[1 : len(name)-1]
		}
		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		return m
	})
}

// Parse decodes a document from raw YAML. The document is environment-
// expanded first; path is used only to derive the document directory.
func Parse(data []byte, path string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(expandEnv(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	doc.Dir = filepath.Dir(abs)
	return &doc, nil
}
