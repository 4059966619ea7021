package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfref-generator/internal/plan"
	"selfref-generator/internal/schema"
)

const documentYAML = `package: demo
structs:
  - name: Document
    source: documentSchema
    type_params:
      - name: This
    fields:
      - name: source
        type: "*string"
      - name: words
        type: "[]Word[This]"
        borrows: source
      - name: cursor
        type: "*int"
      - name: reader
        type: "*Reader[This]"
        borrows: [mut cursor, source]
`

// demoStubs declares the types the document schema refers to.
const demoStubs = `package demo

type Word[This any] struct{ Text string }

type Reader[This any] struct {
	Pos    *int
	Source *string
}
`

func planFromYAML(t *testing.T, src string) *plan.Plan {
	t.Helper()

	f, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	diags := schema.Validate(f, "schema.yaml")
	require.True(t, diags.IsValid(), diags.Error())

	schemas := f.Schemas("schema.yaml", t.TempDir(), "")
	require.Len(t, schemas, 1)

	p, pd := plan.Build(schemas[0])
	require.True(t, pd.IsValid(), pd.Error())

	return p
}

func generate(t *testing.T, src string) string {
	t.Helper()

	file, err := NewGenerator(DefaultGeneratorConfig()).Generate(planFromYAML(t, src))
	require.NoError(t, err)

	return string(file.Content)
}

func TestGenerator_Generate_Document(t *testing.T) {
	p := planFromYAML(t, documentYAML)

	file, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	require.NoError(t, err)

	assert.Equal(t, "document_selfref.go", file.Filename)
	assert.Equal(t, p.Schema.Dir, file.Dir)

	content := string(file.Content)

	assert.True(t, strings.HasPrefix(content, "// Code generated by selfref-generator. DO NOT EDIT."))
	assert.Contains(t, content, "package demo")
	assert.Contains(t, content, "type Document struct")
	assert.Contains(t, content, "released bool")

	// Construction in declaration order.
	assert.Contains(t, content, "func NewDocument(")
	assert.Contains(t, content, "wordsBuilder func(source *string) []Word[any],")
	assert.Contains(t, content, "readerBuilder func(cursor *int, source *string) *Reader[any],")
	assert.Contains(t, content, "sourceRef := result.source")
	assert.Contains(t, content, "words := wordsBuilder(sourceRef)")
	assert.Contains(t, content, "reader := readerBuilder(cursorRef, sourceRef)")
	assert.Less(t,
		strings.Index(content, "result.source = source"),
		strings.Index(content, "result.words = words"))

	// Fallible construction.
	assert.Contains(t, content, "wordsBuilder func(source *string) ([]Word[any], error),")
	assert.Contains(t, content, "words, err := wordsBuilder(sourceRef)")
	assert.Contains(t, content, "return nil, &DocumentHeads{Source: result.source, Cursor: cursor}, err")
	assert.Contains(t, content, "err = releaseDocument(err, result.words)")
	assert.Contains(t, content, "return nil, &DocumentHeads{Source: result.source, Cursor: result.cursor}, err")
	assert.Contains(t, content, "result, _, err := TryNewDocumentOrRecover(source, wordsBuilder, cursor, readerBuilder)")

	// Builders.
	assert.Contains(t, content, "type DocumentBuilder struct")
	assert.Contains(t, content, "return NewDocument(b.Source, b.WordsBuilder, b.Cursor, b.ReaderBuilder)")
	assert.Contains(t, content, "func (b DocumentTryBuilder) TryBuildOrRecover() (*Document, *DocumentHeads, error)")

	// Accessors by role.
	assert.Contains(t, content, "func (d *Document) WithWords(fn func(words []Word[any]))")
	assert.Contains(t, content, "func (d *Document) WithWordsMut(fn func(words *[]Word[any]))")
	assert.Contains(t, content, "func (d *Document) WithReader(fn func(reader *Reader[any]))")
	assert.Contains(t, content, "func (d *Document) WithSourceContents(fn func(source *string))")
	assert.NotContains(t, content, "WithCursor")
	assert.NotContains(t, content, "WithSource(")
	assert.Contains(t, content, `panic("Document used after IntoHeads or Close")`)

	// Views in storage order.
	assert.Contains(t, content, "func (d *Document) With(fn func(DocumentFields))")
	assert.Contains(t, content, "func (d *Document) WithMut(fn func(DocumentMutFields))")
	assert.Contains(t, content, "\t\tReader:         d.reader,\n\t\tWords:          d.words,\n\t\tSourceContents: d.source,\n")
	assert.Contains(t, content, "\t\tReader: &d.reader,\n\t\tWords:  &d.words,\n")

	// Teardown.
	assert.Contains(t, content, "err := releaseDocument(nil, d.reader, d.words)")
	assert.Contains(t, content, "heads := DocumentHeads{Source: d.source, Cursor: d.cursor}")
	assert.Contains(t, content, "err := releaseDocument(nil, d.reader, d.cursor, d.words, d.source)")
	assert.Contains(t, content, "*d = Document{released: true}")

	// Comments.
	assert.Contains(t, content, "// NewDocument constructs a Document")
	assert.Contains(t, content, "generated from documentSchema")
}

func TestGenerator_Generate_StorageOrder(t *testing.T) {
	content := generate(t, documentYAML)

	file, err := parser.ParseFile(token.NewFileSet(), "document_selfref.go", content, 0)
	require.NoError(t, err)

	var names []string

	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != "Document" {
			return true
		}

		for _, f := range ts.Type.(*ast.StructType).Fields.List {
			names = append(names, f.Names[0].Name)
		}

		return false
	})

	assert.Equal(t, []string{"reader", "cursor", "words", "source", "released"}, names)
}

func TestGenerator_Generate_TypeChecks(t *testing.T) {
	content := generate(t, documentYAML)

	fset := token.NewFileSet()

	stubs, err := parser.ParseFile(fset, "stubs.go", demoStubs, 0)
	require.NoError(t, err)

	generated, err := parser.ParseFile(fset, "document_selfref.go", content, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}

	_, err = conf.Check("demo", fset, []*ast.File{stubs, generated}, nil)
	require.NoError(t, err, content)
}

func TestGenerator_Generate_Deterministic(t *testing.T) {
	p := planFromYAML(t, documentYAML)
	g := NewGenerator(DefaultGeneratorConfig())

	first, err := g.Generate(p)
	require.NoError(t, err)

	second, err := g.Generate(p)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
}

func TestGenerator_Generate_NoDoc(t *testing.T) {
	src := strings.Replace(documentYAML, "    source: documentSchema\n", "    source: documentSchema\n    options: no_doc\n", 1)

	content := generate(t, src)

	assert.Equal(t, 1, strings.Count(content, "//"), content)
	assert.Contains(t, content, "func NewDocument(")

	withComments := NewGenerator(GeneratorConfig{GenerateComments: false})

	file, err := withComments.Generate(planFromYAML(t, documentYAML))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(file.Content), "//"))
}

func TestGenerator_Generate_Generic(t *testing.T) {
	content := generate(t, `package demo
structs:
  - name: Pool
    type_params:
      - name: This
      - name: K
        constraint: comparable
    fields:
      - name: index
        type: "map[K]int"
      - name: lookup
        type: "func(K) int"
        borrows: index
`)

	assert.Contains(t, content, "type Pool[K comparable] struct")
	assert.Contains(t, content, "func NewPool[K comparable](")
	assert.Contains(t, content, "lookupBuilder func(index map[K]int) func(K) int,")
	assert.Contains(t, content, "return NewPool[K](b.Index, b.LookupBuilder)")
	assert.Contains(t, content, "func (p *Pool[K]) With(fn func(PoolFields[K]))")
	assert.Contains(t, content, "func (p *Pool[K]) IntoHeads() (PoolHeads[K], error)")
	assert.Contains(t, content, "*p = Pool[K]{released: true}")
	assert.NotContains(t, content, "This")

	_, err := parser.ParseFile(token.NewFileSet(), "pool_selfref.go", content, 0)
	require.NoError(t, err)
}

func TestGenerator_Generate_BuilderReceiverClash(t *testing.T) {
	content := generate(t, `package demo
structs:
  - name: Pair
    type_params:
      - name: b
    fields:
      - name: first
        type: "*b"
      - name: second
        type: "*b"
        borrows: first
`)

	assert.Contains(t, content, "func (builder PairBuilder[b]) Build() *Pair[b]")
	assert.Contains(t, content, "return NewPair[b](builder.First, builder.SecondBuilder)")
}

func TestGenerator_Generate_ImportAliases(t *testing.T) {
	content := generate(t, `package demo
imports:
  - path: github.com/pkg/errors
  - path: bytes
  - path: strings
structs:
  - name: Trace
    type_params:
      - name: This
    fields:
      - name: frames
        type: "*[]errors.Frame"
      - name: buf
        type: "*bytes.Buffer"
        borrows: frames
`)

	assert.Contains(t, content, `"github.com/pkg/errors"`)
	assert.Contains(t, content, `stderrors "errors"`)
	assert.Contains(t, content, `"io"`)
	assert.Contains(t, content, `"bytes"`)
	assert.NotContains(t, content, `"strings"`, "unused schema imports are dropped")
	assert.Contains(t, content, "return stderrors.Join(errs...)")
	assert.Contains(t, content, "v.(io.Closer)")

	_, err := parser.ParseFile(token.NewFileSet(), "trace_selfref.go", content, 0)
	require.NoError(t, err)
}

func TestGenerator_Generate_ExportedFields(t *testing.T) {
	content := generate(t, `package demo
structs:
  - name: Agg
    fields:
      - name: Cursor
        type: "*int"
      - name: Reader
        type: "*string"
        borrows: mut Cursor
      - name: Type
        type: "*int"
`)

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "agg_selfref.go", content, 0)
	require.NoError(t, err)

	var stored []string

	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != "Agg" {
			return true
		}

		for _, f := range ts.Type.(*ast.StructType).Fields.List {
			stored = append(stored, f.Names[0].Name)
		}

		return false
	})

	assert.Equal(t, []string{"typeField", "reader", "cursor", "released"}, stored)
	assert.Contains(t, content, "\tCursor *int,\n\tReaderBuilder func(Cursor *int) *string,\n\tType *int,\n) *Agg {")
	assert.Contains(t, content, "result.cursor = Cursor")
	assert.Contains(t, content, "func (a *Agg) WithReader(fn func(Reader *string))")
	assert.Contains(t, content, "fn(&a.typeField)")
	assert.NotContains(t, content, "WithCursor")

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}

	pkg, err := conf.Check("demo", fset, []*ast.File{file}, nil)
	require.NoError(t, err, content)

	agg := pkg.Scope().Lookup("Agg").Type().Underlying().(*types.Struct)
	for i := range agg.NumFields() {
		assert.False(t, agg.Field(i).Exported(), agg.Field(i).Name())
	}
}

func TestGenerator_Generate_ImportNameDiffersFromPath(t *testing.T) {
	content := generate(t, `package demo
imports:
  - path: github.com/mattn/go-isatty
  - path: github.com/hashicorp/golang-lru/v2
    alias: lru
structs:
  - name: Term
    fields:
      - name: fd
        type: "*isatty.T"
      - name: cache
        type: "*lru.Cache[string, int]"
        borrows: fd
`)

	assert.Contains(t, content, `"github.com/mattn/go-isatty"`)
	assert.Contains(t, content, `lru "github.com/hashicorp/golang-lru/v2"`)
	assert.Contains(t, content, "fd       *isatty.T")
}

func TestGenerator_Generate_NilPlan(t *testing.T) {
	_, err := NewGenerator(DefaultGeneratorConfig()).Generate(nil)
	require.Error(t, err)
}

func TestGenerator_GenerateAll_OutputDir(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(GeneratorConfig{OutputDir: dir, GenerateComments: true})

	files, err := g.GenerateAll([]*plan.Plan{planFromYAML(t, documentYAML)})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, dir, files[0].Dir)
}
