package schema

import (
	"encoding/json"
	"io"
	"strconv"

	"sigs.k8s.io/yaml"

	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
)

// Declarations is the content of a table declaration file:
//
//	tables:
//	  - name: Users
//	    columns:
//	      - {name: ID, type: INT, tags: [PRIMARY, AUTO_INCREMENT]}
//	      - {name: Name, type: VARCHAR(255), tags: [NOT_NULL], default: Missing}
//	    unique:
//	      - [Name]
type Declarations struct {
	Tables []TableDeclaration `json:"tables"`
}

// TableDeclaration declares one table.
type TableDeclaration struct {
	Name    string              `json:"name"`
	Columns []ColumnDeclaration `json:"columns"`
	Unique  [][]string          `json:"unique,omitempty"`
}

// ColumnDeclaration declares one column.
type ColumnDeclaration struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags,omitempty"`
	Default any      `json:"default,omitempty"`
}

// ParseDeclarations decodes a YAML (or JSON) declaration document.
func ParseDeclarations(data []byte) (*Declarations, error) {
	var d Declarations
	useNumber := func(dec *json.Decoder) *json.Decoder {
		dec.UseNumber()
		return dec
	}
	if err := yaml.Unmarshal(data, &d, useNumber); err != nil {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "declare", Message: "invalid declaration file", Cause: err}
	}
	return &d, nil
}

// Build turns the declaration into columns and table options for Register.
func (td TableDeclaration) Build() ([]*Column, []TableOption, error) {
	columns := make([]*Column, 0, len(td.Columns))
	for _, cd := range td.Columns {
		c, err := cd.build()
		if err != nil {
			return nil, nil, sqlerr.Annotate(err, td.Name, cd.Name)
		}
		columns = append(columns, c)
	}

	opts := make([]TableOption, 0, len(td.Unique))
	for _, group := range td.Unique {
		refs := make([]any, len(group))
		for i, name := range group {
			refs[i] = name
		}
		opts = append(opts, UniqueGroup(refs...))
	}
	return columns, opts, nil
}

func (cd ColumnDeclaration) build() (*Column, error) {
	typ, err := types.Parse(cd.Type)
	if err != nil {
		return nil, withOp(err, "declare")
	}

	var tags Tag
	for _, name := range cd.Tags {
		tag, ok := ParseTag(name)
		if !ok {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "declare", Message: "unknown tag " + strconv.Quote(name)}
		}
		tags |= tag
	}

	var opts []ColumnOption
	if cd.Default != nil {
		def, err := normalizeDefault(typ, cd.Default)
		if err != nil {
			return nil, err
		}
		opts = append(opts, Default(def))
	}
	return NewColumn(cd.Name, typ, tags, opts...), nil
}

// normalizeDefault converts decoded JSON numbers into the Go integers the
// type system validates.
func normalizeDefault(typ types.ColumnType, v any) (any, error) {
	n, ok := v.(json.Number)
	if !ok {
		return v, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u, nil
	}
	return nil, &sqlerr.Error{Kind: sqlerr.ErrTypeMismatch, Op: "declare",
		Message: "default " + n.String() + " is not a valid " + typ.Name()}
}

// LoadDeclarations reads a declaration document from r and registers every
// table in it, in file order. Registration stops at the first error.
func (r *Registry) LoadDeclarations(src io.Reader) ([]*Table, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "declare", Message: "read declarations", Cause: err}
	}
	d, err := ParseDeclarations(data)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(d.Tables))
	for _, td := range d.Tables {
		columns, opts, err := td.Build()
		if err != nil {
			return tables, err
		}
		t, err := r.Register(td.Name, columns, opts...)
		if err != nil {
			return tables, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Declare converts a registered table back into its declaration.
func Declare(t *Table) TableDeclaration {
	td := TableDeclaration{Name: t.name}
	for _, c := range t.columns {
		cd := ColumnDeclaration{Name: c.name, Type: c.typ.Name(), Default: c.def}
		for _, n := range tagNames {
			if c.tags.Has(n.tag) {
				cd.Tags = append(cd.Tags, n.name)
			}
		}
		td.Columns = append(td.Columns, cd)
	}
	for _, g := range t.unique {
		if len(g) == 1 && g[0].tags.Has(Unique) {
			continue
		}
		names := make([]string, len(g))
		for i, c := range g {
			names[i] = c.name
		}
		td.Unique = append(td.Unique, names)
	}
	return td
}
