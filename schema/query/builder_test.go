package query

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuilderSelectFieldDedup(t *testing.T) {
	tests := []struct {
		name   string
		paths  []string
		sorted bool
		want   []string
	}{
		{"single", []string{"Name"}, true, []string{"Name"}},
		{"case collision keeps first casing", []string{"Name", "NAME", "name"}, true, []string{"Name"}},
		{"whitespace trimmed", []string{" Name ", "Name"}, true, []string{"Name"}},
		{"dotted path dedup", []string{"Account.Name", "ACCOUNT.name"}, true, []string{"Account.Name"}},
		{
			"sorted output groups cross-object after prefix",
			[]string{"LastName", "FirstName", "Account.Name", "AccountId"},
			true,
			[]string{"AccountId", "Account.Name", "FirstName", "LastName"},
		},
		{
			"insertion order preserved when sorting disabled",
			[]string{"LastName", "FirstName", "AccountId"},
			false,
			[]string{"LastName", "FirstName", "AccountId"},
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("Contact")
			b.SortFieldsOnOutput(tt.sorted)
			if err := b.SelectFields(tt.paths); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := b.SelectedFields(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("invalid fields:\ngot:  %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

func TestBuilderSelectFieldEmpty(t *testing.T) {
	b := NewBuilder("Contact")
	if err := b.SelectField("  "); !errors.Is(err, ErrEmptyFieldName) {
		t.Errorf("unexpected error: got %v, want ErrEmptyFieldName", err)
	}
	if err := b.SelectFields([]string{"Name", ""}); !errors.Is(err, ErrEmptyFieldName) {
		t.Errorf("unexpected error: got %v, want ErrEmptyFieldName", err)
	}
	// The field added before the failure stays selected.
	if got, want := b.SelectedFields(), []string{"Name"}; !reflect.DeepEqual(got, want) {
		t.Errorf("invalid fields: got %#v, want %#v", got, want)
	}
}

func TestBuilderQueryText(t *testing.T) {
	ordering := func(field string, dir Direction, nullsLast bool) Ordering {
		o, err := NewOrdering(field, dir, nullsLast)
		if err != nil {
			t.Fatalf("unexpected ordering error: %v", err)
		}
		return o
	}
	tests := []struct {
		name  string
		build func(b *Builder)
		want  string
	}{
		{
			"no fields defaults to Id",
			func(b *Builder) {},
			"SELECT Id FROM Contact",
		},
		{
			"fields sorted",
			func(b *Builder) {
				b.SelectFields([]string{"LastName", "FirstName"})
			},
			"SELECT FirstName, LastName FROM Contact",
		},
		{
			"where clause",
			func(b *Builder) {
				b.SelectField("Name")
				b.SetCondition("Name != null")
			},
			"SELECT Name FROM Contact WHERE Name != null",
		},
		{
			"blank condition emits no where clause",
			func(b *Builder) {
				b.SelectField("Name")
				b.SetCondition("   ")
			},
			"SELECT Name FROM Contact",
		},
		{
			"limit and offset",
			func(b *Builder) {
				b.SetLimit(10)
				b.SetOffset(5)
			},
			"SELECT Id FROM Contact LIMIT 10 OFFSET 5",
		},
		{
			"zero limit and offset omitted",
			func(b *Builder) {
				b.SetLimit(0)
				b.SetOffset(0)
			},
			"SELECT Id FROM Contact",
		},
		{
			"single ordering",
			func(b *Builder) {
				b.AddOrdering(ordering("Name", Ascending, false))
			},
			"SELECT Id FROM Contact ORDER BY Name ASC NULLS FIRST",
		},
		{
			"multiple orderings under one ORDER BY",
			func(b *Builder) {
				b.AddOrdering(ordering("LastName", Ascending, false))
				b.AddOrdering(ordering("CreatedDate", Descending, true))
			},
			"SELECT Id FROM Contact ORDER BY LastName ASC NULLS FIRST, CreatedDate DESC NULLS LAST",
		},
		{
			"set ordering replaces the list",
			func(b *Builder) {
				b.AddOrdering(ordering("LastName", Ascending, false))
				b.SetOrdering(ordering("CreatedDate", Descending, false))
			},
			"SELECT Id FROM Contact ORDER BY CreatedDate DESC NULLS FIRST",
		},
		{
			"all clauses",
			func(b *Builder) {
				b.SelectFields([]string{"LastName", "FirstName"})
				b.SetCondition("LastName != null")
				b.AddOrdering(ordering("LastName", Ascending, false))
				b.SetLimit(25)
				b.SetOffset(50)
			},
			"SELECT FirstName, LastName FROM Contact WHERE LastName != null ORDER BY LastName ASC NULLS FIRST LIMIT 25 OFFSET 50",
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("Contact")
			tt.build(b)
			if got := b.QueryText(); got != tt.want {
				t.Errorf("invalid query text:\ngot:  %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestBuilderQueryTextOrderIndependent(t *testing.T) {
	a := NewBuilder("Contact")
	a.SelectFields([]string{"FirstName", "LastName", "AccountId"})
	b := NewBuilder("Contact")
	b.SelectFields([]string{"AccountId", "LastName", "FirstName"})
	if a.QueryText() != b.QueryText() {
		t.Errorf("query text differs for identical field sets:\na: %s\nb: %s", a.QueryText(), b.QueryText())
	}
	if !a.Equal(b) {
		t.Error("builders with identical field sets not equal")
	}
}

func TestBuilderSubselect(t *testing.T) {
	b := NewBuilder("Account")
	b.SelectField("Name")

	child, err := b.Subselect("Contacts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child.SelectField("LastName")

	// Repeated calls return the same child.
	again, err := b.Subselect("Contacts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != child {
		t.Error("repeated Subselect returned a different child")
	}
	again.SelectField("FirstName")

	want := "SELECT Name, (SELECT FirstName, LastName FROM Contacts) FROM Account"
	if got := b.QueryText(); got != want {
		t.Errorf("invalid query text:\ngot:  %s\nwant: %s", got, want)
	}

	// A subquery refuses to nest further.
	if _, err := child.Subselect("Cases"); err == nil {
		t.Error("expected nesting error, got nil")
	} else {
		var serr *InvalidSubqueryRelationshipError
		if !errors.As(err, &serr) {
			t.Errorf("unexpected error type: %T", err)
		}
	}
}

func TestBuilderSubselectRenderOrder(t *testing.T) {
	b := NewBuilder("Account")
	if _, err := b.Subselect("Contacts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Subselect("Cases"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SELECT (SELECT Id FROM Contacts), (SELECT Id FROM Cases) FROM Account"
	if got := b.QueryText(); got != want {
		t.Errorf("invalid query text:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestBuilderDeepClone(t *testing.T) {
	b := NewBuilder("Account")
	b.SelectFields([]string{"Name", "Industry"})
	b.SetCondition("Industry != null")
	b.SetLimit(10)
	o, _ := NewOrdering("Name", Ascending, false)
	b.AddOrdering(o)
	child, _ := b.Subselect("Contacts")
	child.SelectField("LastName")

	original := b.QueryText()
	clone := b.DeepClone()
	if clone.QueryText() != original {
		t.Fatalf("clone renders differently:\ngot:  %s\nwant: %s", clone.QueryText(), original)
	}
	if !b.Equal(clone) {
		t.Fatal("clone not equal to original")
	}

	// Mutating the clone must not affect the original.
	clone.SelectField("Website")
	clone.SetLimit(99)
	clone.SetCondition("Name = 'x'")
	cloneChild, _ := clone.Subselect("Contacts")
	cloneChild.SelectField("Email")
	if _, err := clone.Subselect("Cases"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.QueryText(); got != original {
		t.Errorf("original changed after clone mutation:\ngot:  %s\nwant: %s", got, original)
	}

	// And the other way around.
	b.SelectField("Phone")
	if clone.QueryText() == b.QueryText() {
		t.Error("clone still shares state with original")
	}
}

func TestBuilderEqual(t *testing.T) {
	a := NewBuilder("Contact")
	a.SelectField("Name")
	b := NewBuilder("Contact")
	b.SelectField("Name")
	if !a.Equal(b) {
		t.Error("identical builders not equal")
	}
	b.SetLimit(1)
	if a.Equal(b) {
		t.Error("builders with different limits equal")
	}
	c := NewBuilder("Account")
	c.SelectField("Name")
	if a.Equal(c) {
		t.Error("builders with different tables equal")
	}
	if a.Equal(nil) {
		t.Error("builder equal to nil")
	}
}
