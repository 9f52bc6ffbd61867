package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNormalizeString(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{"foo", "foo"},
		{[]byte("raw"), "raw"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{ts, "2024-01-02T03:04:05Z"},
		{EntityField{Entity: "users", Field: "id"}, "users.id"},
	}
	for _, tt := range tests {
		got, err := NormalizeString(tt.in)
		if err != nil {
			t.Fatalf("NormalizeString(%v) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, in := range []any{nil, []int{1}, struct{}{}} {
		if _, err := NormalizeString(in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("NormalizeString(%v): expected invalid argument, got %v", in, err)
		}
	}
}

func TestExpressionType(t *testing.T) {
	if TypeEquals.Canonical() != TypeEqualTo || TypeEqual.Canonical() != TypeEqualTo {
		t.Error("equal_to aliases should fold into equal_to")
	}
	if TypeGreater.Canonical() != TypeGreater {
		t.Error("Canonical changed a non alias type")
	}
	if !TypePlus.IsStandard() || ExpressionType("regexp").IsStandard() {
		t.Error("IsStandard misreports built-in types")
	}
}

func TestConstructors(t *testing.T) {
	in := In("id", 1, 2)
	if in.Type != TypeIn || len(in.Terms) != 2 {
		t.Fatalf("unexpected in expression: %+v", in)
	}
	set, ok := in.Terms[1].(*Expression)
	if !ok || set.Type != TypeSet || !reflect.DeepEqual(set.Terms, []Term{Literal{1}, Literal{2}}) {
		t.Errorf("in values should be a set of literals, got %+v", in.Terms[1])
	}

	eq := EqualTo("name", Field("alias"))
	if eq.Terms[1] != Field("alias") {
		t.Errorf("terms should not be wrapped as literals, got %#v", eq.Terms[1])
	}

	n := Not(eq)
	if !n.Negated || eq.Negated {
		t.Error("Not should negate a copy")
	}
	if Not(n).Negated {
		t.Error("double negation should clear the flag")
	}

	if got := ParseEntityField("wp.posts.ID"); got != (EntityField{Entity: "wp.posts", Field: "ID"}) {
		t.Errorf("ParseEntityField = %+v", got)
	}
	if got := ParseEntityField("ID"); got != (EntityField{Field: "ID"}) {
		t.Errorf("ParseEntityField = %+v", got)
	}
}

func TestColumnMap(t *testing.T) {
	m := NewColumnMap("name", "user_name", "author", "users.name")
	m.Set("name", "full_name")

	if got := m.Fields(); !reflect.DeepEqual(got, []string{"name", "author"}) {
		t.Errorf("Fields = %v", got)
	}
	if got := m.ColumnNames(); !reflect.DeepEqual(got, []string{"full_name", "name"}) {
		t.Errorf("ColumnNames = %v", got)
	}
	col, ok := m.Column("author")
	if !ok || col.Entity != "users" {
		t.Errorf("Column(author) = %+v, %v", col, ok)
	}

	var nilMap *ColumnMap
	if nilMap.Len() != 0 || nilMap.Fields() != nil {
		t.Error("a nil column map should read as empty")
	}
}

func TestChangeSet(t *testing.T) {
	c := NewChangeSet("b", 1, "a", Plus(Field("a"), 1), 3, "ignored")
	c.Set("b", 2)

	if got := c.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Keys = %v", got)
	}
	if v, _ := c.Get("b"); v != 2 {
		t.Errorf("Get(b) = %v, want 2", v)
	}
	if _, err := c.Get("c"); !IsNotFound(err) {
		t.Errorf("Get(c): expected not found, got %v", err)
	}
}

func TestValueHashMap(t *testing.T) {
	h := HasherFunc(func(key string, _ any, pos int) string { return fmt.Sprintf("%%%d$s", pos+1) })

	m := NewValueHashMap()
	if tok := m.Add("a", "a", h); tok != "%1$s" {
		t.Errorf("first token = %q", tok)
	}
	m.Add("b", "b", h)
	if tok := m.Add("a", "A", h); tok != "%1$s" {
		t.Errorf("an existing key should keep its token, got %q", tok)
	}

	want := []HashEntry{{Key: "a", Token: "%1$s", Value: "A"}, {Key: "b", Token: "%2$s", Value: "b"}}
	if got := m.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries = %+v, want %+v", got, want)
	}
	if got := m.Args(); !reflect.DeepEqual(got, map[string]any{"%1$s": "A", "%2$s": "b"}) {
		t.Errorf("Args = %v", got)
	}

	o := NewValueHashMap()
	o.Put("b", ":bb", "B")
	o.Put("c", ":cc", "c")
	merged := m.Merge(o)
	if got := merged.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("merged keys = %v", got)
	}
	if tok, _ := merged.Token("b"); tok != ":bb" {
		t.Errorf("right side should win on merge, got %q", tok)
	}
	if tok, _ := m.Token("b"); tok != "%2$s" {
		t.Error("Merge modified its receiver")
	}

	var nilMap *ValueHashMap
	if nilMap.Len() != 0 || nilMap.Has("a") || len(nilMap.Args()) != 0 {
		t.Error("a nil hash map should read as empty")
	}
	if got := nilMap.Merge(o).Len(); got != 2 {
		t.Errorf("nil.Merge(o).Len() = %d", got)
	}
}

type user struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

func TestAsContainer(t *testing.T) {
	c, err := AsContainer(&user{ID: 1, Name: "Alice"})
	if err != nil {
		t.Fatalf("AsContainer failed: %v", err)
	}
	if v, _ := c.Get("name"); v != "Alice" {
		t.Errorf("Get(name) = %v", v)
	}
	if !c.Has("email") || c.Has("Name") {
		t.Error("struct fields should be keyed by their db tags")
	}

	rec := Record{"a": 1}
	if c, _ := AsContainer(rec); !reflect.DeepEqual(c, rec) {
		t.Error("containers should pass through")
	}
	if c, _ := AsContainer(map[string]string{"a": "x"}); !c.Has("a") {
		t.Error("string maps should be adapted")
	}

	for _, in := range []any{nil, 42, []string{"a"}} {
		if _, err := AsContainer(in); !errors.Is(err, ErrInvalidContainer) {
			t.Errorf("AsContainer(%v): expected invalid container, got %v", in, err)
		}
	}
}

func TestContainerHelpers(t *testing.T) {
	var nilRec Record
	if ContainerHas(nilRec, "a") || ContainerHas(nil, "a") {
		t.Error("nil containers hold nothing")
	}
	if _, err := ContainerGet(nil, "a"); !errors.Is(err, ErrInvalidContainer) {
		t.Errorf("ContainerGet(nil): %v", err)
	}
	_, err := ContainerGet(Record{}, "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Key != "missing" {
		t.Errorf("expected *NotFoundError, got %v", err)
	}
	if got := (Record{"b": 1, "a": 2}).Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys = %v", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Translate(format string, args ...any) string {
	return strings.ToUpper(fmt.Sprintf(format, args...))
}

func TestTranslator(t *testing.T) {
	SetTranslator(upperTranslator{})
	defer SetTranslator(NewPrinterTranslator(language.English))

	err := NewInvalidArgumentError("change set cannot be empty", errors.New("cause"), nil)
	if err.Error() != "CHANGE SET CANNOT BE EMPTY: cause" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("InvalidArgumentError should match ErrInvalidArgument")
	}
	if got := (&NotFoundError{Key: "k"}).Error(); got != `KEY "K" NOT FOUND` {
		t.Errorf("NotFoundError = %q", got)
	}
}
