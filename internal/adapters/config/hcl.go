package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// hclRoot decodes the top level of an HCL profile.
type hclRoot struct {
	Options     *hclOptions     `hcl:"options,block"`
	Environment *hclEnvironment `hcl:"environment,block"`
	Requires    []*hclRequire   `hcl:"require,block"`
	Commands    *hclCommands    `hcl:"commands,block"`
	Imports     *bool           `hcl:"imports,optional"`
}

type hclOptions struct {
	Body hcl.Body `hcl:",remain"`
}

type hclEnvironment struct {
	Host            *string `hcl:"host,optional"`
	Target          *string `hcl:"target,optional"`
	CrossBuilding   *bool   `hcl:"cross_building,optional"`
	ShouldConfigure *bool   `hcl:"should_configure,optional"`
	ShouldBuild     *bool   `hcl:"should_build,optional"`
	ShouldTest      *bool   `hcl:"should_test,optional"`
	ShouldInstall   *bool   `hcl:"should_install,optional"`
}

type hclRequire struct {
	Name      string  `hcl:"name,label"`
	Reference string  `hcl:"reference"`
	Scope     *string `hcl:"scope,optional"`
}

type hclCommands struct {
	Configure []string `hcl:"configure,optional"`
	Build     []string `hcl:"build,optional"`
	Test      []string `hcl:"test,optional"`
	Install   []string `hcl:"install,optional"`
}

func parseHCL(path string, data []byte) (*ProfileFile, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, zerr.Wrap(domain.ErrSchema, "failed to parse profile: "+diags.Error())
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, zerr.Wrap(domain.ErrSchema, "failed to decode profile: "+diags.Error())
	}

	file := &ProfileFile{
		Options:  make(map[string]any),
		Commands: make(map[string][]string),
	}
	if root.Imports != nil {
		file.Imports = *root.Imports
	}

	if root.Options != nil {
		attrs, diags := root.Options.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, zerr.Wrap(domain.ErrSchema, "options must be plain attributes: "+diags.Error())
		}
		for name, attr := range attrs {
			value, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, zerr.With(zerr.Wrap(domain.ErrSchema, "invalid option value: "+diags.Error()), "option", name)
			}
			if value.IsNull() {
				continue
			}
			s, err := ctyToString(value)
			if err != nil {
				return nil, zerr.With(err, "option", name)
			}
			file.Options[name] = s
		}
	}

	if env := root.Environment; env != nil {
		file.Environment = EnvironmentDTO{
			Host:            env.Host,
			Target:          env.Target,
			CrossBuilding:   env.CrossBuilding,
			ShouldConfigure: env.ShouldConfigure,
			ShouldBuild:     env.ShouldBuild,
			ShouldTest:      env.ShouldTest,
			ShouldInstall:   env.ShouldInstall,
		}
	}

	for _, req := range root.Requires {
		dto := RequirementDTO{Name: req.Name, Reference: req.Reference}
		if req.Scope != nil {
			dto.Scope = *req.Scope
		}
		file.Requires = append(file.Requires, dto)
	}

	if cmds := root.Commands; cmds != nil {
		for phase, cmd := range map[domain.Phase][]string{
			domain.PhaseConfigure: cmds.Configure,
			domain.PhaseBuild:     cmds.Build,
			domain.PhaseTest:      cmds.Test,
			domain.PhaseInstall:   cmds.Install,
		} {
			if cmd != nil {
				file.Commands[string(phase)] = cmd
			}
		}
	}

	return file, nil
}

// ctyToString renders a scalar cty value the way it would be written on the command line.
func ctyToString(v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return "", nil
	}

	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	case cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrSchema, "option value must be a scalar"), "type", v.Type().FriendlyName())
	}
}
