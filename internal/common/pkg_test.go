package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	assert.Empty(t, PkgAlias(""))
	assert.Equal(t, "io", PkgAlias("io"))
	assert.Equal(t, "packages", PkgAlias("golang.org/x/tools/go/packages"))
	assert.Equal(t, "mod", PkgAlias("example.com/mod/v2"))
	assert.Equal(t, "yaml", PkgAlias("gopkg.in/yaml.v3"))
	assert.Equal(t, "isatty", PkgAlias("github.com/mattn/go-isatty"))
	assert.Equal(t, "colorable", PkgAlias("github.com/mattn/go-colorable"))
	assert.Equal(t, "golang", PkgAlias("github.com/hashicorp/golang-lru/v2"))
}
