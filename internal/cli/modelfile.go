package cli

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
	"github.com/asaidimu/sqlresource/pkg/sqldb"
)

// ModelFile describes a resource model and the operation arguments to run
// against it.
//
//	table: users
//	columns:            # field: column, in order
//	  name: user_name
//	  age: user_age
//	records:
//	  - {name: Alice, age: 30}
//	changes:
//	  age: {type: plus, terms: [{field: age}, 1]}
//	condition:
//	  type: and
//	  terms:
//	    - {type: equal_to, terms: [{field: name}, Alice]}
//	    - {type: in, terms: [{field: age}, [30, 31]]}
//
// A term is a scalar value, {field: name}, {column: table.column}, a list
// (a set of terms) or a nested expression {type, negated, terms}.
type ModelFile struct {
	Table        string
	Columns      *core.ColumnMap
	SelectTables []string
	Joins        []query.Join
	Records      []core.Record
	Changes      *core.ChangeSet
	Condition    *core.Expression
}

type rawModelFile struct {
	Table        string           `yaml:"table"`
	Columns      yaml.Node        `yaml:"columns"`
	SelectTables []string         `yaml:"select_tables"`
	Joins        []rawJoin        `yaml:"joins"`
	Records      []map[string]any `yaml:"records"`
	Changes      yaml.Node        `yaml:"changes"`
	Condition    yaml.Node        `yaml:"condition"`
}

type rawJoin struct {
	Type  string    `yaml:"type"`
	Table string    `yaml:"table"`
	On    yaml.Node `yaml:"on"`
}

// LoadModelFile reads and parses the model file at path.
func LoadModelFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return ParseModelFile(data)
}

// ParseModelFile parses a YAML model file.
func ParseModelFile(data []byte) (*ModelFile, error) {
	var raw rawModelFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}
	if raw.Table == "" {
		return nil, fmt.Errorf("model file: table is required")
	}

	f := &ModelFile{
		Table:        raw.Table,
		Columns:      core.NewColumnMap(),
		SelectTables: raw.SelectTables,
	}

	if err := eachPair(&raw.Columns, "columns", func(key string, val *yaml.Node) error {
		if val.Kind != yaml.ScalarNode || val.Value == "" {
			return fmt.Errorf("line %d: column for %q must be a name", val.Line, key)
		}
		f.Columns.Set(key, val.Value)
		return nil
	}); err != nil {
		return nil, err
	}
	if f.Columns.Len() == 0 {
		return nil, fmt.Errorf("model file: columns are required")
	}

	for _, j := range raw.Joins {
		on, err := parseCondition(&j.On)
		if err != nil {
			return nil, fmt.Errorf("join %s: %w", j.Table, err)
		}
		f.Joins = append(f.Joins, query.Join{Type: j.Type, Table: j.Table, Condition: on})
	}

	for _, r := range raw.Records {
		f.Records = append(f.Records, core.Record(r))
	}

	if raw.Changes.Kind != 0 {
		f.Changes = core.NewChangeSet()
		if err := eachPair(&raw.Changes, "changes", func(key string, val *yaml.Node) error {
			v, err := parseValue(val)
			if err != nil {
				return err
			}
			f.Changes.Set(key, v)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	cond, err := parseCondition(&raw.Condition)
	if err != nil {
		return nil, err
	}
	f.Condition = cond
	return f, nil
}

// Containers returns the records as containers.
func (f *ModelFile) Containers() []core.Container {
	out := make([]core.Container, len(f.Records))
	for i, r := range f.Records {
		out[i] = r
	}
	return out
}

// Model builds the resource model the file describes. prefix is prepended to
// the model's table.
func (f *ModelFile) Model(db sqldb.ExecQuerier, d sqldb.Dialect, prefix string, logger *slog.Logger) (*sqldb.Model, error) {
	opts := []sqldb.Option{sqldb.WithDialect(d), sqldb.WithLogger(logger)}
	if len(f.SelectTables) > 0 {
		opts = append(opts, sqldb.WithSelectTables(f.SelectTables...))
	}
	for _, j := range f.Joins {
		opts = append(opts, sqldb.WithJoin(j.Type, j.Table, j.Condition))
	}
	return sqldb.New(db, prefix+f.Table, f.Columns, opts...)
}

func eachPair(n *yaml.Node, name string, fn func(key string, val *yaml.Node) error) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", n.Line, name)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// parseCondition parses an optional expression node.
func parseCondition(n *yaml.Node) (*core.Expression, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode || mappingValue(n, "type") == nil {
		return nil, fmt.Errorf("line %d: condition must be an expression with a type", n.Line)
	}
	return parseExpression(n)
}

// parseValue parses a change set value: a term when the node describes one,
// otherwise the plain decoded value.
func parseValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		return parseTerm(n)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}

func parseTerm(n *yaml.Node) (core.Term, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return core.Literal{Value: v}, nil

	case yaml.SequenceNode:
		set := &core.Expression{Type: core.TypeSet}
		for _, c := range n.Content {
			t, err := parseTerm(c)
			if err != nil {
				return nil, err
			}
			set.Terms = append(set.Terms, t)
		}
		return set, nil

	case yaml.MappingNode:
		if v := mappingValue(n, "field"); v != nil {
			return core.Field(v.Value), nil
		}
		if v := mappingValue(n, "column"); v != nil {
			return core.ParseEntityField(v.Value), nil
		}
		if mappingValue(n, "type") != nil {
			return parseExpression(n)
		}
	}
	return nil, fmt.Errorf("line %d: expected a value, field, column or expression", n.Line)
}

func parseExpression(n *yaml.Node) (*core.Expression, error) {
	e := &core.Expression{Type: core.ExpressionType(mappingValue(n, "type").Value)}
	if neg := mappingValue(n, "negated"); neg != nil {
		if err := neg.Decode(&e.Negated); err != nil {
			return nil, fmt.Errorf("line %d: negated: %w", neg.Line, err)
		}
	}
	terms := mappingValue(n, "terms")
	if terms == nil {
		return e, nil
	}
	if terms.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: terms must be a list", terms.Line)
	}
	for _, c := range terms.Content {
		t, err := parseTerm(c)
		if err != nil {
			return nil, err
		}
		e.Terms = append(e.Terms, t)
	}
	return e, nil
}
