package display

import (
	"fmt"
	"runtime/debug"

	"github.com/cmoxiv/wArgs/core"
)

// BuildVersion renders the version line for a command. When the schema
// declares no version, the main module's build metadata is consulted.
func BuildVersion(spec *core.ParserSpec) string {
	version := spec.Version
	if version == "" {
		inferred, ok := inferVersion()
		if !ok {
			return "No version specified"
		}
		version = inferred
	}

	version = trimV(version)
	if spec.Prog != "" {
		return fmt.Sprintf("%s v%s", spec.Prog, version)
	}
	return "v" + version
}

func trimV(version string) string {
	if len(version) > 0 && (version[0] == 'v' || version[0] == 'V') {
		return version[1:]
	}
	return version
}

// inferVersion attempts to read the module version from build info.
func inferVersion() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, true
	}
	return "", false
}
