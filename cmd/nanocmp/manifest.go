package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/pthm/nanocmp"
)

// Manifest declares the components a document is rendered with.
type Manifest struct {
	Components []Component `yaml:"components" validate:"required,min=1,dive"`
}

// Component is the declarative form of a nanocmp.Definition. The builder it
// produces sets Attrs and Class on the element and, when the element is
// empty, appends Template.
type Component struct {
	Tag       string            `yaml:"tag" validate:"required"`
	Style     string            `yaml:"style" validate:"excluded_with=StyleFile"`
	StyleFile string            `yaml:"styleFile"`
	Attrs     map[string]string `yaml:"attrs"`
	Class     string            `yaml:"class"`
	Template  string            `yaml:"template"`
	Members   map[string]any    `yaml:"members"`
}

var validate = validator.New()

// LoadManifest reads, validates and resolves the manifest at path. Style
// files are read relative to the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range m.Components {
		c := &m.Components[i]
		if c.StyleFile == "" {
			continue
		}
		style, err := os.ReadFile(filepath.Join(dir, c.StyleFile))
		if err != nil {
			return nil, fmt.Errorf("components[%d].styleFile: %w", i, err)
		}
		c.Style = string(style)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML. StyleFile entries are
// left unresolved.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, convertValidationError(err)
	}
	return &m, nil
}

func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fe := ves[0]
	return fmt.Errorf("%s failed validation for tag '%s'", yamlishFieldName(fe), fe.Tag())
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")[1:]
	for i, part := range parts {
		parts[i] = strings.ToLower(part[:1]) + part[1:]
	}
	return strings.Join(parts, ".")
}

// Setup returns a setup function registering every manifest component.
// Builders report template errors to log.
func (m *Manifest) Setup(log zerolog.Logger) nanocmp.SetupFunc {
	return func(reg *nanocmp.Registry) error {
		for _, c := range m.Components {
			if err := reg.Define(c.Tag, c.Definition(log)); err != nil {
				return err
			}
		}
		return nil
	}
}

// Definition converts c to a registry definition.
func (c Component) Definition(log zerolog.Logger) nanocmp.Definition {
	def := nanocmp.Definition{Members: c.Members}
	if c.Style != "" {
		def.Style = c.Style
	}

	keys := make([]string, 0, len(c.Attrs))
	for k := range c.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	classes := strings.Fields(c.Class)
	template := c.Template

	def.Builder = func(in *nanocmp.Instance) {
		for _, k := range keys {
			in.SetAttr(k, c.Attrs[k])
		}
		if len(classes) > 0 {
			in.AddClass(classes...)
		}
		if template != "" && in.Node.FirstChild == nil {
			if err := in.AppendHTML(template); err != nil {
				log.Warn().Err(err).Str("tag", c.Tag).Msg("template not applied")
				return
			}
			log.Debug().Str("tag", c.Tag).Msg("template applied")
		}
	}
	return def
}
