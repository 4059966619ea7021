package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sourceText", "sourcetext"},
		{"source_text", "sourcetext"},
		{"source-text", "sourcetext"},
		{"SourceText", "sourcetext"},
		{"SOURCETEXT", "sourcetext"},
		{"XMLReader", "xmlreader"},
		{"rawHTTPBody", "rawhttpbody"},
		{"token_IDs", "tokenids"},
		{"", ""},
		{"a", "a"},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestTokenizeCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"sourceText", []string{"source", "Text"}},
		{"TokenIDs", []string{"Token", "I", "Ds"}},
		{"XMLReader", []string{"XML", "Reader"}},
		{"rawHTTPBody", []string{"raw", "HTTP", "Body"}},
		{"parse_tree", []string{"parse", "tree"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"lowercase", []string{"lowercase"}},
		{"", nil},
		{"a", []string{"a"}},
		{"AbC", []string{"Ab", "C"}},
		{"_leading", []string{"leading"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeCamelCase(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"parsed", "document"}, TokenizeIdent("ParsedDocument"))
	assert.Equal(t, []string{"xml", "reader"}, TokenizeIdent("XMLReader"))
	assert.Equal(t, []string{"word", "index"}, TokenizeIdent("word_index"))
}

func TestExportedUnexported(t *testing.T) {
	assert.Equal(t, "Source", Exported("source"))
	assert.Equal(t, "HttpBody", Exported("httpBody"))
	assert.Equal(t, "Already", Exported("Already"))
	assert.Empty(t, Exported(""))

	assert.Equal(t, "document", Unexported("Document"))
	assert.Equal(t, "xMLReader", Unexported("XMLReader"))
	assert.Empty(t, Unexported(""))
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "parsed_document", SnakeCase("ParsedDocument"))
	assert.Equal(t, "xml_reader", SnakeCase("XMLReader"))
	assert.Equal(t, "tree", SnakeCase("Tree"))
}

func TestReceiverName(t *testing.T) {
	assert.Equal(t, "d", ReceiverName("Document"))
	assert.Equal(t, "x", ReceiverName(""))
}
