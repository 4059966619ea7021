package common

import (
	"path"
	"strings"
	"unicode"
)

// PkgAlias returns the name a package is assumed to have when imported
// without an alias. Returns empty string if pkgPath is empty.
//
// The assumption follows goimports: a major version element ("/v2") is
// skipped, a "go-" prefix is dropped and the name ends at the first
// character that cannot appear in an identifier, so "gopkg.in/yaml.v3"
// is yaml and "github.com/mattn/go-isatty" is isatty. Imports whose
// package is named otherwise need an explicit alias.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		if parent := path.Dir(pkgPath); parent != "." && parent != "/" {
			base = path.Base(parent)
		}
	}

	base = strings.TrimPrefix(base, "go-")

	if i := strings.IndexFunc(base, notIdentRune); i >= 0 {
		base = base[:i]
	}

	return base
}

func notIdentRune(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
