package model

import (
	"errors"
	"strings"
)

// Field names, in file column order.
const (
	LastName      = "last_name"
	FirstName     = "first_name"
	Patronymic    = "otchestvo"
	Organization  = "organization"
	WorkPhone     = "work_phone"
	PersonalPhone = "personal_phone"
)

// Fields is the declared field set. It defines both the record shape and the
// column order of the phonebook file.
var Fields = []string{LastName, FirstName, Patronymic, Organization, WorkPhone, PersonalPhone}

var labels = map[string]string{
	LastName:      "Last name",
	FirstName:     "First name",
	Patronymic:    "Patronymic",
	Organization:  "Organization",
	WorkPhone:     "Work phone",
	PersonalPhone: "Personal phone",
}

var ErrUnknownField = errors.New("unknown field")

// Record is one phonebook contact. Every field is free text; empty is valid.
type Record struct {
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Patronymic    string `json:"otchestvo"`
	Organization  string `json:"organization"`
	WorkPhone     string `json:"work_phone"`
	PersonalPhone string `json:"personal_phone"`
}

// FromMap builds a Record from field name -> value. Missing fields stay empty
// and unknown keys are ignored.
func FromMap(m map[string]string) Record {
	var r Record
	for _, f := range Fields {
		_ = r.Set(f, m[f])
	}
	return r
}

// IsField reports whether name is one of the declared fields.
func IsField(name string) bool {
	_, ok := labels[name]
	return ok
}

// Label returns the prompt label for a field, or the name itself.
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func (r *Record) ptr(field string) *string {
	switch field {
	case LastName:
		return &r.LastName
	case FirstName:
		return &r.FirstName
	case Patronymic:
		return &r.Patronymic
	case Organization:
		return &r.Organization
	case WorkPhone:
		return &r.WorkPhone
	case PersonalPhone:
		return &r.PersonalPhone
	}
	return nil
}

// Get returns the value of a declared field.
func (r Record) Get(field string) (string, error) {
	p := r.ptr(field)
	if p == nil {
		return "", ErrUnknownField
	}
	return *p, nil
}

// Set overwrites a declared field.
func (r *Record) Set(field, value string) error {
	p := r.ptr(field)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

// Values returns the field values in declared order.
func (r Record) Values() []string {
	out := make([]string, 0, len(Fields))
	for _, f := range Fields {
		v, _ := r.Get(f)
		out = append(out, v)
	}
	return out
}

// Map returns the record as field name -> value.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[f], _ = r.Get(f)
	}
	return out
}

// String renders the values in declared order joined by ", ".
func (r Record) String() string {
	return strings.Join(r.Values(), ", ")
}

// Sanitize replaces the file delimiter so a value stays in one column.
func Sanitize(v string) string {
	return strings.ReplaceAll(v, ",", "-")
}
