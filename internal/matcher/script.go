package matcher

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Script is a named set of templates loaded from a file.
type Script struct {
	Path      string
	Templates map[string]Template
}

// Names returns the template names in sorted order.
func (s *Script) Names() []string {
	names := make([]string, 0, len(s.Templates))
	for n := range s.Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadScript reads a YAML, JSON or TOML file with a top-level "templates"
// table mapping names to descriptions (see FromDescription):
//
//	templates:
//	  start_button:
//	    type: image
//	    path: start.png
//	    region: [0, 600, 400, 120]
//	  health_bar:
//	    type: color_chain
//	    anchor: "#e02020"
//	    colors: [[4, 0, "#e02020"], [8, 0, "#e02020"]]
//
// Names and keys are case-insensitive and come back lowercased. Relative
// image paths resolve against deps.BaseDir, or the script's own directory
// when that is empty.
func LoadScript(path string, deps Deps) (*Script, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading script %s: %v", ErrConfig, path, err)
	}

	if deps.BaseDir == "" {
		deps.BaseDir = filepath.Dir(path)
	}

	raw := v.GetStringMap("templates")
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: script %s defines no templates", ErrConfig, path)
	}

	s := &Script{Path: path, Templates: make(map[string]Template, len(raw))}
	for name, entry := range raw {
		desc, err := cast.ToStringMapE(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: template %q: want a table, got %T", ErrConfig, name, entry)
		}
		t, err := FromDescription(desc, deps)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		s.Templates[name] = t
	}

	log.Info().Str("path", path).Int("templates", len(s.Templates)).Msg("Script loaded")
	return s, nil
}
