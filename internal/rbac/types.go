package rbac

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Role is a named, immutable bundle of permissions.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// RoleConfig is a single role record in a roles document.
type RoleConfig struct {
	Name        string   `json:"name" yaml:"name" validate:"required,notblank"`
	Permissions []string `json:"permissions" yaml:"permissions" validate:"dive,notblank"`
}

// UnmarshalYAML accepts only string scalars for the name and permissions,
// matching encoding/json. Plain yaml.v3 would turn 7 or true into "7" and
// "true".
func (r *RoleConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name        yaml.Node   `yaml:"name"`
		Permissions []yaml.Node `yaml:"permissions"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	name, err := yamlString(&raw.Name, "name")
	if err != nil {
		return err
	}

	var perms []string
	if raw.Permissions != nil {
		perms = make([]string, 0, len(raw.Permissions))
		for i := range raw.Permissions {
			p, err := yamlString(&raw.Permissions[i], fmt.Sprintf("permissions[%d]", i))
			if err != nil {
				return err
			}
			perms = append(perms, p)
		}
	}

	r.Name = name
	r.Permissions = perms
	return nil
}

// yamlString returns the value of a string scalar. Absent and null nodes
// yield "" and are left to validation.
func yamlString(n *yaml.Node, field string) (string, error) {
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null") {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", fmt.Errorf("line %d: %s must be a string, got %s", n.Line, field, n.ShortTag())
	}
	return n.Value, nil
}

// RolesConfig is the roles document consumed by NewCatalog.
type RolesConfig struct {
	Roles []RoleConfig `json:"roles" yaml:"roles" validate:"required,dive"`
}

// Format identifies the encoding of a roles document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)
