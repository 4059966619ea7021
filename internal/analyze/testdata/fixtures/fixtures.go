package fixtures

import (
	bt "bytes"
	"strings"
)

// Reader reads from a shared buffer.
type Reader[This any] struct {
	buf *bt.Buffer
}

//selfref:generate Parser no_doc
type parserSchema[This any] struct {
	buf    *bt.Buffer
	name   *strings.Builder
	reader *Reader[This] `json:"-" borrows:"buf, mut name"`
}

// Interpreted tag literals are read too.
//
//selfref:generate
type tokensSchema struct {
	text  string
	words []string "borrows:\"text\""
}

//selfref:generate Weird
type weirdSchema int

//selfref:generate
type plain struct {
	a *int
	b *int `borrows:"a"`
}

type (
	//selfref:generate Grouped
	groupedSchema struct {
		strings.Builder
		b *int `borrows:"Builder"`
	}

	notASchema struct {
		x int
	}
)
