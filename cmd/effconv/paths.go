package main

import (
	"path/filepath"
	"strings"
)

// textOutputPaths fills in defaults for the binary→JSON direction:
// the JSON lands next to the input with ".json" appended, the resource
// payload next to it with the extension swapped for ".ptcl".
func textOutputPaths(input, output, resource string) (string, string) {
	if output == "" {
		output = input + ".json"
	}
	if resource == "" {
		resource = replaceExt(input, ".ptcl")
	}
	return output, resource
}

// binaryOutputPaths fills in defaults for the JSON→binary direction:
// "fighter.eff.json" becomes "fighter.eff" with its payload read from
// "fighter.ptcl".
func binaryOutputPaths(input, output, resource string) (string, string) {
	if output == "" {
		output = replaceExt(input, ".eff")
	}
	if resource == "" {
		resource = replaceExt(replaceExt(input, ""), ".ptcl")
	}
	return output, resource
}

// replaceExt swaps the final extension of path for ext (which includes
// the dot, or is empty to strip the extension).
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
