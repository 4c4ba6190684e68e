package config

// ProfileFile represents the structure of the rig.yaml profile.
type ProfileFile struct {
	Options     map[string]any      `yaml:"options"`
	Environment EnvironmentDTO      `yaml:"environment"`
	Requires    []RequirementDTO    `yaml:"requires"`
	Commands    map[string][]string `yaml:"commands"`
	Imports     bool                `yaml:"imports"`
}

// EnvironmentDTO holds the environment descriptor. Unset fields keep their defaults.
type EnvironmentDTO struct {
	Host            *string `yaml:"host"`
	Target          *string `yaml:"target"`
	CrossBuilding   *bool   `yaml:"cross_building"`
	ShouldConfigure *bool   `yaml:"should_configure"`
	ShouldBuild     *bool   `yaml:"should_build"`
	ShouldTest      *bool   `yaml:"should_test"`
	ShouldInstall   *bool   `yaml:"should_install"`
}

// RequirementDTO is an extra dependency declared by the profile.
type RequirementDTO struct {
	Name      string `yaml:"name"`
	Reference string `yaml:"reference"`
	Scope     string `yaml:"scope"`
}
