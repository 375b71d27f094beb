package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type Group struct{}

type UserGroup struct{}

type Person struct{}

type HTTPServer struct{}

type legacyAccount struct{}

func (legacyAccount) TableName() string { return "tbl_accounts" }

type auditEntry struct{}

func (*auditEntry) TableName() string { return "audit_log" }

func TestTableName(t *testing.T) {
	tests := []struct {
		name     string
		model    any
		expected string
	}{
		{"struct", Group{}, "groups"},
		{"pointer", &Group{}, "groups"},
		{"slice", []*Group{}, "groups"},
		{"compound", UserGroup{}, "user_groups"},
		{"irregular", Person{}, "people"},
		{"acronym", HTTPServer{}, "http_servers"},
		{"table namer", legacyAccount{}, "tbl_accounts"},
		{"pointer receiver namer", []auditEntry{}, "audit_log"},
		{"string", "groups", "groups"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TableName(tt.model))
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ID":         "id",
		"FirstName":  "first_name",
		"HTTPServer": "http_server",
		"a1B":        "a1_b",
		"already_ok": "already_ok",
		"Group_ID":   "group_id",
		"":           "",
	}

	for in, expected := range tests {
		assert.Equal(t, expected, toSnakeCase(in), in)
	}
}
