package query

import "github.com/rs/query-layer/schema"

// testRegistry returns a small CRM-flavored schema used across the
// package tests: Account and Contact with a polymorphic Owner reference,
// child relationships and a couple of field sets.
func testRegistry() schema.MapRegistry {
	account := &schema.ObjectType{
		Name: "Account",
		Fields: schema.Fields{
			"Id":       {Name: "Id"},
			"Name":     {Name: "Name"},
			"Industry": {Name: "Industry"},
			"Website":  {Name: "Website"},
			"Phone":    {Name: "Phone"},
			"OwnerId": {
				Name:             "OwnerId",
				Kind:             schema.Reference,
				RelationshipName: "Owner",
				ReferenceTo:      []string{"User", "Queue"},
			},
		},
		ChildRelationships: []schema.Relationship{
			{Name: "Contacts", ChildType: "Contact"},
			{Name: "Cases", ChildType: "Case"},
			// Unnamed relationships exist in real describes and must be
			// skipped by lookups.
			{Name: "", ChildType: "AccountHistory"},
		},
		FieldSets: []schema.FieldSet{
			{Name: "Overview", ObjectType: "Account", Paths: []string{"Name", "Industry"}},
		},
	}
	contact := &schema.ObjectType{
		Name: "Contact",
		Fields: schema.Fields{
			"Id":        {Name: "Id"},
			"Name":      {Name: "Name"},
			"FirstName": {Name: "FirstName"},
			"LastName":  {Name: "LastName"},
			"Email":     {Name: "Email"},
			"AccountId": {
				Name:             "AccountId",
				Kind:             schema.Reference,
				RelationshipName: "Account",
				ReferenceTo:      []string{"Account"},
			},
			"OwnerId": {
				Name:             "OwnerId",
				Kind:             schema.Reference,
				RelationshipName: "Owner",
				ReferenceTo:      []string{"User", "Queue"},
			},
		},
		FieldSets: []schema.FieldSet{
			{Name: "Summary", ObjectType: "Contact", Paths: []string{"FirstName", "LastName", "Account.Name"}},
			{Name: "Plain", ObjectType: "Contact", Paths: []string{"FirstName", "LastName"}},
		},
	}
	user := &schema.ObjectType{
		Name: "User",
		Fields: schema.Fields{
			"Id":    {Name: "Id"},
			"Name":  {Name: "Name"},
			"Email": {Name: "Email"},
			"ManagerId": {
				Name:             "ManagerId",
				Kind:             schema.Reference,
				RelationshipName: "Manager",
				ReferenceTo:      []string{"User"},
			},
		},
	}
	queue := &schema.ObjectType{
		Name: "Queue",
		Fields: schema.Fields{
			"Id":            {Name: "Id"},
			"Name":          {Name: "Name"},
			"DeveloperName": {Name: "DeveloperName"},
		},
	}
	kase := &schema.ObjectType{
		Name: "Case",
		Fields: schema.Fields{
			"Id":      {Name: "Id"},
			"Subject": {Name: "Subject"},
			"Status":  {Name: "Status"},
		},
	}
	return schema.NewRegistry(account, contact, user, queue, kase)
}

// denyAccess denies read access to the listed objects and object.field
// pairs and allows everything else.
type denyAccess struct {
	objects map[string]bool
	fields  map[string]bool
}

func (d denyAccess) CheckObjectReadable(object string) error {
	if d.objects[object] {
		return &schema.PermissionError{Object: object}
	}
	return nil
}

func (d denyAccess) CheckFieldReadable(object, field string) error {
	if d.fields[object+"."+field] {
		return &schema.PermissionError{Object: object, Field: field}
	}
	return nil
}
