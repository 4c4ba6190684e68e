package domain

import "strings"

// Environment describes the platform and lifecycle switches of one invocation.
// It is passed by value and never mutated by the resolver.
type Environment struct {
	Host            string `json:"host" yaml:"host"`
	Target          string `json:"target" yaml:"target"`
	CrossBuilding   bool   `json:"cross_building" yaml:"cross_building"`
	ShouldConfigure bool   `json:"should_configure" yaml:"should_configure"`
	ShouldBuild     bool   `json:"should_build" yaml:"should_build"`
	ShouldTest      bool   `json:"should_test" yaml:"should_test"`
	ShouldInstall   bool   `json:"should_install" yaml:"should_install"`
}

// DefaultEnvironment returns a native environment for the given platform that
// configures and builds but neither tests nor installs.
func DefaultEnvironment(platform string) Environment {
	return Environment{
		Host:            platform,
		Target:          platform,
		ShouldConfigure: true,
		ShouldBuild:     true,
	}
}

// TargetsWebAssembly reports whether the target platform is a web-assembly style target.
func (e Environment) TargetsWebAssembly() bool {
	t := strings.ToLower(e.Target)
	return strings.Contains(t, "wasm") || strings.Contains(t, "emscripten")
}
