/*
Package describe decodes YAML describe documents into schema object types.

A describe document lists the queryable types with their fields, child
relationships and field sets:

	objects:
	  - name: Contact
	    fields:
	      - name: Id
	      - name: FirstName
	      - name: AccountId
	        kind: reference
	        relationshipName: Account
	        referenceTo: [Account]
	    childRelationships:
	      - name: Cases
	        childType: Case
	    fieldSets:
	      - name: Summary
	        paths: [FirstName, LastName, Account.Name]

Decode returns a schema.MapRegistry ready to back a query.TypedBuilder.
The decoder is a convenience for fixtures and tooling; schemas may as
well be constructed by literal.
*/
package describe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rs/query-layer/schema"
)

type document struct {
	Objects []object `yaml:"objects"`
}

type object struct {
	Name               string         `yaml:"name"`
	Fields             []field        `yaml:"fields"`
	ChildRelationships []relationship `yaml:"childRelationships"`
	FieldSets          []fieldSet     `yaml:"fieldSets"`
}

type field struct {
	Name             string   `yaml:"name"`
	Kind             string   `yaml:"kind"`
	RelationshipName string   `yaml:"relationshipName"`
	ReferenceTo      []string `yaml:"referenceTo"`
}

type relationship struct {
	Name      string `yaml:"name"`
	ChildType string `yaml:"childType"`
}

type fieldSet struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// Decode reads a YAML describe document and returns a registry of the
// object types it declares.
func Decode(r io.Reader) (schema.MapRegistry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if len(doc.Objects) == 0 {
		return nil, fmt.Errorf("describe: no objects declared")
	}

	types := make([]*schema.ObjectType, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		t, err := o.objectType()
		if err != nil {
			return nil, fmt.Errorf("describe: %w", err)
		}
		types = append(types, t)
	}
	return schema.NewRegistry(types...), nil
}

// DecodeFile reads a YAML describe document from a file.
func DecodeFile(path string) (schema.MapRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func (o object) objectType() (*schema.ObjectType, error) {
	if o.Name == "" {
		return nil, fmt.Errorf("object with no name")
	}
	t := &schema.ObjectType{
		Name:   o.Name,
		Fields: make(schema.Fields, len(o.Fields)),
	}
	for _, f := range o.Fields {
		sf, err := f.schemaField(o.Name)
		if err != nil {
			return nil, err
		}
		if _, found := t.Fields[sf.Name]; found {
			return nil, fmt.Errorf("%s: duplicate field: %s", o.Name, sf.Name)
		}
		t.Fields[sf.Name] = sf
	}
	for _, r := range o.ChildRelationships {
		if r.Name == "" || r.ChildType == "" {
			return nil, fmt.Errorf("%s: child relationship needs a name and a childType", o.Name)
		}
		t.ChildRelationships = append(t.ChildRelationships, schema.Relationship{
			Name:      r.Name,
			ChildType: r.ChildType,
		})
	}
	for _, fs := range o.FieldSets {
		if fs.Name == "" {
			return nil, fmt.Errorf("%s: field set with no name", o.Name)
		}
		t.FieldSets = append(t.FieldSets, schema.FieldSet{
			Name:       fs.Name,
			ObjectType: o.Name,
			Paths:      append([]string(nil), fs.Paths...),
		})
	}
	return t, nil
}

func (f field) schemaField(object string) (schema.Field, error) {
	if f.Name == "" {
		return schema.Field{}, fmt.Errorf("%s: field with no name", object)
	}
	sf := schema.Field{
		Name:             f.Name,
		RelationshipName: f.RelationshipName,
		ReferenceTo:      append([]string(nil), f.ReferenceTo...),
	}
	switch strings.ToLower(f.Kind) {
	case "", "scalar":
		sf.Kind = schema.Scalar
		if len(f.ReferenceTo) > 0 {
			return schema.Field{}, fmt.Errorf("%s.%s: referenceTo on a scalar field", object, f.Name)
		}
	case "reference":
		sf.Kind = schema.Reference
		if len(f.ReferenceTo) == 0 {
			return schema.Field{}, fmt.Errorf("%s.%s: reference field needs referenceTo", object, f.Name)
		}
	default:
		return schema.Field{}, fmt.Errorf("%s.%s: unknown field kind: %s", object, f.Name, f.Kind)
	}
	return sf, nil
}
