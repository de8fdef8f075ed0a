package rbac

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a roles document from path and builds a Catalog. The
// format follows the file extension: .json, .yaml or .yml.
func LoadCatalog(path string) (*Catalog, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, &ConfigLoadError{Source: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigLoadError{Source: path, Err: fmt.Errorf("read roles file: %w", err)}
	}

	return parseCatalog(data, format, path)
}

// ParseCatalog decodes a roles document and builds a Catalog from it.
func ParseCatalog(data []byte, format Format) (*Catalog, error) {
	return parseCatalog(data, format, "")
}

func parseCatalog(data []byte, format Format, source string) (*Catalog, error) {
	var cfg RolesConfig

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, &ConfigLoadError{Source: source, Err: fmt.Errorf("unmarshal json: %w", err)}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ConfigLoadError{Source: source, Err: fmt.Errorf("unmarshal yaml: %w", err)}
		}
	default:
		return nil, &ConfigLoadError{Source: source, Err: fmt.Errorf("unsupported format %q", format)}
	}

	return newCatalog(cfg, source)
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported roles file extension %q", filepath.Ext(path))
	}
}
