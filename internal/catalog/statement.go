package catalog

import (
	"fmt"

	"github.com/vvka-141/dwhetl/internal/checksum"
)

// Statement is a named SQL statement. Table is the table it acts on.
type Statement struct {
	Name  string
	Kind  Kind
	Table string
	SQL   string
}

// Checksum fingerprints the SQL, ignoring comments and formatting.
func (s Statement) Checksum() string {
	return checksum.Of(s.SQL)
}

// Collection is an ordered list of statements of a single kind.
// The zero value is an empty collection.
type Collection struct {
	kind       Kind
	statements []Statement
}

// NewCollection returns a collection of the given kind. It fails if any
// statement has a different kind or if a name repeats.
func NewCollection(kind Kind, statements ...Statement) (Collection, error) {
	seen := make(map[string]bool, len(statements))
	for _, s := range statements {
		if s.Kind != kind {
			return Collection{}, fmt.Errorf("statement %s has kind %s, collection is %s", s.Name, s.Kind, kind)
		}
		if seen[s.Name] {
			return Collection{}, fmt.Errorf("duplicate statement name %s", s.Name)
		}
		seen[s.Name] = true
	}
	return Collection{kind: kind, statements: append([]Statement(nil), statements...)}, nil
}

func mustCollection(kind Kind, statements ...Statement) Collection {
	c, err := NewCollection(kind, statements...)
	if err != nil {
		panic(err)
	}
	return c
}

// Kind reports the kind shared by every statement in the collection.
func (c Collection) Kind() Kind { return c.kind }

// Len returns the number of statements.
func (c Collection) Len() int { return len(c.statements) }

// Statements returns the statements in execution order.
// The returned slice is a copy.
func (c Collection) Statements() []Statement {
	return append([]Statement(nil), c.statements...)
}

// Names returns statement names in execution order.
func (c Collection) Names() []string {
	names := make([]string, len(c.statements))
	for i, s := range c.statements {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a statement by name.
func (c Collection) Lookup(name string) (Statement, bool) {
	for _, s := range c.statements {
		if s.Name == name {
			return s, true
		}
	}
	return Statement{}, false
}

// Checksum fingerprints the statements and their order.
func (c Collection) Checksum() string {
	sums := make([]string, len(c.statements))
	for i, s := range c.statements {
		sums[i] = s.Name + ":" + s.Checksum()
	}
	return checksum.Combine(sums...)
}
