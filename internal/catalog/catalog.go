package catalog

import (
	"errors"
	"fmt"

	"github.com/vvka-141/dwhetl/internal/storage"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Params are the values embedded in the catalog's COPY statements and the
// dialect its DDL is rendered in.
type Params struct {
	LogData     string
	LogJSONPath string
	SongData    string
	RoleARN     string
	Region      string
	Dialect     Dialect
}

// withDefaults fills in the region and normalizes the dialect.
func (p Params) withDefaults() Params {
	if p.Region == "" {
		p.Region = dwhetl.DefaultRegion
	}
	if d, err := ParseDialect(string(p.Dialect)); err == nil {
		p.Dialect = d
	}
	return p
}

// Validate reports every missing or malformed parameter. The returned error
// wraps dwhetl.ErrInvalidConfig.
func (p Params) Validate() error {
	p = p.withDefaults()

	var errs []error
	for _, loc := range []struct{ name, value string }{
		{"log_data", p.LogData},
		{"log_jsonpath", p.LogJSONPath},
		{"song_data", p.SongData},
	} {
		if loc.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", loc.name))
			continue
		}
		if _, err := storage.ParseURI(loc.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", loc.name, err))
		}
	}

	if p.RoleARN == "" {
		errs = append(errs, errors.New("iam_role.arn is required"))
	} else if err := validateRoleARN(p.RoleARN); err != nil {
		errs = append(errs, err)
	}

	if err := validateRegion(p.Region); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseDialect(string(p.Dialect)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", dwhetl.ErrInvalidConfig, errors.Join(errs...))
}

// Catalog is the complete, immutable set of statements for one invocation.
type Catalog struct {
	Drop   Collection
	Create Collection
	Copy   Collection
	Insert Collection
}

// Build validates p and renders every statement.
func Build(p Params) (*Catalog, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	return &Catalog{
		Drop:   dropStatements(),
		Create: createStatements(p.Dialect),
		Copy:   copyStatements(p),
		Insert: insertStatements(),
	}, nil
}

// BuildSchema renders the collections that need no storage parameters:
// Drop, Create and Insert. Copy is empty.
func BuildSchema(d Dialect) (*Catalog, error) {
	d, err := ParseDialect(string(d))
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Drop:   dropStatements(),
		Create: createStatements(d),
		Copy:   mustCollection(KindCopy),
		Insert: insertStatements(),
	}, nil
}

// Collection returns the collection holding statements of kind k, or an
// empty collection of kind k when k is not a known kind.
func (c *Catalog) Collection(k Kind) Collection {
	switch k {
	case KindDrop:
		return c.Drop
	case KindCreate:
		return c.Create
	case KindCopy:
		return c.Copy
	case KindInsert:
		return c.Insert
	default:
		return Collection{kind: k}
	}
}

// All returns every statement in Drop, Create, Copy, Insert order.
func (c *Catalog) All() []Statement {
	var all []Statement
	for _, k := range Kinds {
		all = append(all, c.Collection(k).Statements()...)
	}
	return all
}

func dropStatements() Collection {
	stmts := make([]Statement, len(Tables))
	for i, t := range Tables {
		stmts[i] = Statement{Name: t.StatementKey + "_drop", Kind: KindDrop, Table: t.Name, SQL: dropSQL(t)}
	}
	return mustCollection(KindDrop, stmts...)
}

func createStatements(d Dialect) Collection {
	stmts := make([]Statement, len(Tables))
	for i, t := range Tables {
		stmts[i] = Statement{Name: t.StatementKey + "_create", Kind: KindCreate, Table: t.Name, SQL: createSQL(t, d)}
	}
	return mustCollection(KindCreate, stmts...)
}
