package domain

// Option names of the GaMa recipe.
const (
	OptionSQLite3        = "sqlite3"
	OptionLibXML2        = "libxml2"
	OptionNativeCompiler = "native_compiler"
	OptionBuildType      = "build_type"
	OptionCppStd         = "cppstd"
)

// GamaSchema returns the option schema of the GaMa recipe.
func GamaSchema() *Schema {
	s, err := NewSchema(
		OptionSpec{
			Name:        OptionSQLite3,
			Kind:        OptionBool,
			Default:     "false",
			Description: "Build with SQLite3 configuration storage",
		},
		OptionSpec{
			Name:        OptionLibXML2,
			Kind:        OptionBool,
			Default:     "false",
			Description: "Require libxml2 for XML schema validation in tests",
		},
		OptionSpec{
			Name:        OptionNativeCompiler,
			Kind:        OptionText,
			Description: "Host C++ compiler used for code generation when cross building",
		},
		OptionSpec{
			Name:        OptionBuildType,
			Kind:        OptionEnum,
			Allowed:     []string{"Debug", "Release", "RelWithDebInfo", "MinSizeRel"},
			Description: "CMake build type",
		},
		OptionSpec{
			Name:        OptionCppStd,
			Kind:        OptionEnum,
			Allowed:     []string{"17", "20", "23"},
			Description: "C++ language standard (at least 17)",
		},
	)
	if err != nil {
		// The declarations above are static.
		panic(err)
	}
	return s
}
