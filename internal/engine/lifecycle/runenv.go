package lifecycle

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// RunEnvironment returns the variables that put the shared libraries and
// executables of the installed dependencies in reach of a test binary.
// dirs maps dependency names to install directories. The result is nil when dirs is empty.
func RunEnvironment(dirs map[string]string) map[string]string {
	if len(dirs) == 0 {
		return nil
	}

	var bins, libs []string
	for _, name := range slices.Sorted(maps.Keys(dirs)) {
		bins = append(bins, filepath.Join(dirs[name], "bin"))
		libs = append(libs, filepath.Join(dirs[name], "lib"))
	}

	sep := string(os.PathListSeparator)
	return map[string]string{
		"PATH":              strings.Join(bins, sep),
		"LD_LIBRARY_PATH":   strings.Join(libs, sep),
		"DYLD_LIBRARY_PATH": strings.Join(libs, sep),
	}
}
