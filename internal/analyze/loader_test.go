package analyze

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfref-generator/internal/schema"
)

const fixturesPath = "selfref-generator/internal/analyze/testdata/fixtures"

func loadFixtures(t *testing.T) (*Analyzer, *PackageInfo) {
	t.Helper()

	analyzer := NewAnalyzer(Config{Dir: filepath.Join("testdata", "fixtures")})
	res, err := analyzer.LoadPackages(".")
	require.NoError(t, err)
	require.Len(t, res.Packages, 1)

	return analyzer, res.Packages[0]
}

func findSchema(pkg *PackageInfo, source string) *schema.Schema {
	for _, s := range pkg.Schemas {
		if s.Source == source {
			return s
		}
	}

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	_, pkg := loadFixtures(t)

	assert.Equal(t, fixturesPath, pkg.Path)
	assert.Equal(t, "fixtures", pkg.Name)

	var sources []string
	for _, s := range pkg.Schemas {
		sources = append(sources, s.Source)
	}

	// Stale generated files are never read as schemas.
	assert.Equal(t, []string{"parserSchema", "tokensSchema", "groupedSchema"}, sources)
}

func TestAnalyzer_Diagnostics(t *testing.T) {
	analyzer, _ := loadFixtures(t)

	diags := analyzer.Diagnostics()
	assert.Equal(t, []string{"not_a_struct", "missing_name"}, diags.Codes())
	assert.Equal(t, "weirdSchema", diags.Errors[0].Schema)
	assert.Equal(t, "plain", diags.Errors[1].Schema)
	assert.NotEmpty(t, diags.Errors[1].Suggestions)
}

func TestAnalyzer_SchemaFields(t *testing.T) {
	_, pkg := loadFixtures(t)

	s := findSchema(pkg, "parserSchema")
	require.NotNil(t, s)

	assert.Equal(t, "Parser", s.Name)
	assert.Equal(t, schema.Options{NoDoc: true}, s.Options)
	assert.Equal(t, schema.DefaultScopeMarker, s.ScopeMarker)
	assert.Equal(t, []string{"buf", "name", "reader"}, s.FieldNames())
	assert.NotNil(t, s.Scope)
	assert.Equal(t, pkg.Dir, s.Dir)

	require.Len(t, s.TypeParams, 1)
	assert.Equal(t, "This", s.TypeParams[0].Name)

	reader := s.Fields[2]
	require.Len(t, reader.Tokens, 4)
	assert.Equal(t, "buf", reader.Tokens[0].Text)
	assert.Equal(t, 17, reader.Tokens[0].Pos.Line)
	assert.Equal(t, 42, reader.Tokens[0].Pos.Column)
	assert.True(t, reader.Tokens[2].IsMut())
	require.NotNil(t, reader.GoType)

	assert.False(t, s.Fields[0].HasDependencies())
}

func TestAnalyzer_Imports(t *testing.T) {
	_, pkg := loadFixtures(t)

	s := findSchema(pkg, "parserSchema")
	require.NotNil(t, s)

	assert.Equal(t, []schema.Import{
		{Alias: "bt", Path: "bytes"},
		{Path: "strings"},
	}, s.Imports)
}

func TestAnalyzer_Imports_NameDiffersFromPath(t *testing.T) {
	analyzer := NewAnalyzer(Config{Dir: filepath.Join("testdata", "imported")})
	res, err := analyzer.LoadPackages(".")
	require.NoError(t, err)
	require.True(t, analyzer.Diagnostics().IsValid(), analyzer.Diagnostics().Error())

	schemas := res.Schemas()
	require.Len(t, schemas, 1)

	assert.Equal(t, []schema.Import{
		{Alias: "widget", Path: "selfref-generator/internal/analyze/testdata/widgetlib"},
	}, schemas[0].Imports)
	assert.Equal(t, []string{"Part", "Parts"}, schemas[0].FieldNames())
}

func TestAnalyzer_InterpretedTag(t *testing.T) {
	_, pkg := loadFixtures(t)

	s := findSchema(pkg, "tokensSchema")
	require.NotNil(t, s)

	assert.Equal(t, "Tokens", s.Name)
	require.Len(t, s.Fields, 2)
	require.Len(t, s.Fields[1].Tokens, 1)
	assert.Equal(t, "text", s.Fields[1].Tokens[0].Text)
	assert.Empty(t, s.TypeParams)
}

func TestAnalyzer_EmbeddedField(t *testing.T) {
	_, pkg := loadFixtures(t)

	s := findSchema(pkg, "groupedSchema")
	require.NotNil(t, s)

	assert.Equal(t, "Grouped", s.Name)
	require.Len(t, s.Fields, 2)
	assert.True(t, s.Fields[0].Embedded)
	assert.Empty(t, s.Fields[0].Name)
}

func TestAnalyzer_OwnFiles(t *testing.T) {
	_, pkg := loadFixtures(t)

	require.Len(t, pkg.OwnFiles, 1)

	for name := range pkg.OwnFiles {
		assert.Equal(t, "stale_selfref.go", filepath.Base(name))
	}

	s := findSchema(pkg, "parserSchema")
	require.NotNil(t, s)
	assert.Equal(t, pkg.OwnFiles, s.OwnFiles)
}

func TestAnalyzer_OutDir(t *testing.T) {
	out := t.TempDir()

	analyzer := NewAnalyzer(Config{Dir: filepath.Join("testdata", "fixtures"), OutDir: out, ScopeMarker: "Self"})
	res, err := analyzer.LoadPackages(".")
	require.NoError(t, err)

	for _, s := range res.Schemas() {
		assert.Equal(t, out, s.Dir)
		assert.Equal(t, "Self", s.ScopeMarker)
	}

	assert.NotNil(t, res.Package(fixturesPath))
	assert.Nil(t, res.Package("selfref-generator/nope"))
}

func TestAnalyzer_LoadError(t *testing.T) {
	analyzer := NewAnalyzer(Config{})
	res, err := analyzer.LoadPackages("selfref-generator/internal/analyze/testdata/does-not-exist")
	require.NoError(t, err)

	assert.Empty(t, res.Schemas())
	assert.NotEmpty(t, analyzer.Diagnostics().Warnings)
}
