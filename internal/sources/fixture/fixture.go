// Package fixture serves resource records from JSON or YAML files, one file
// per resource named after it (DIVIDENDS.json, orders.yaml, ...).
package fixture

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
)

// Extensions are tried in order when looking up a resource file.
var Extensions = []string{".json", ".yaml", ".yml"}

// Source reads records from files under a directory.
type Source struct {
	dir string
}

var _ sources.Source = (*Source)(nil)

// New creates a fixture source over dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the fixture directory.
func (s *Source) Dir() string { return s.dir }

// Path returns the file that holds resourceID, or "" when there is none.
func (s *Source) Path(resourceID string) string {
	for _, name := range []string{resourceID, strings.ToLower(resourceID)} {
		for _, ext := range Extensions {
			candidate := filepath.Join(s.dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// Fetch implements sources.Source. A resource without a file has no sample.
func (s *Source) Fetch(ctx context.Context, resourceID string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(resourceID)
	if path == "" {
		logging.Ctx(ctx).Debug().
			Str("resource", resourceID).
			Str("dir", s.dir).
			Msg("No fixture file for resource")
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapSource("fixture", resourceID, err)
	}

	var out any
	if err := yaml.UnmarshalWithOptions(data, &out, yaml.UseOrderedMap()); err != nil {
		format := strings.TrimPrefix(filepath.Ext(path), ".")
		return nil, errors.WrapSource("fixture", resourceID, errors.WrapParse(format, path, err))
	}
	return sources.Unwrap(out), nil
}
