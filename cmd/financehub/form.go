package main

import (
	"strings"

	"financehub/entities"
)

type formKind int

const (
	formSignIn formKind = iota
	formRegister
	formPost
	formPoll
	formComment
	formProfile
)

type field struct {
	label  string
	value  string
	secret bool
}

// form is a list of single-line text fields with one in focus.
type form struct {
	kind   formKind
	title  string
	fields []field
	focus  int
}

func newForm(kind formKind, category string) form {
	if category == "" || category == entities.CategoryAll {
		category = entities.Categories[0].ID
	}
	switch kind {
	case formRegister:
		return form{kind: kind, title: "Create an account", fields: []field{
			{label: "Email"},
			{label: "Username"},
			{label: "Password", secret: true},
		}}
	case formPost:
		return form{kind: kind, title: "New post", fields: []field{
			{label: "What's on your mind"},
			{label: "Image URL (optional)"},
			{label: "Hashtags (#like #this)"},
			{label: "Category", value: category},
		}}
	case formPoll:
		return form{kind: kind, title: "New poll", fields: []field{
			{label: "Question"},
			{label: "Options (separated by ;)"},
			{label: "Hashtags (#like #this)"},
			{label: "Category", value: category},
		}}
	case formComment:
		return form{kind: kind, title: "New comment", fields: []field{
			{label: "Comment"},
		}}
	case formProfile:
		return form{kind: kind, title: "Edit profile (blank fields stay as they are)", fields: []field{
			{label: "Username"},
			{label: "Avatar URL"},
			{label: "Bio"},
		}}
	}
	return form{kind: formSignIn, title: "Sign in", fields: []field{
		{label: "Email"},
		{label: "Password", secret: true},
	}}
}

func (f *form) insert(s string) {
	f.fields[f.focus].value += s
}

func (f *form) backspace() {
	r := []rune(f.fields[f.focus].value)
	if len(r) > 0 {
		f.fields[f.focus].value = string(r[:len(r)-1])
	}
}

func (f *form) next() { f.focus = (f.focus + 1) % len(f.fields) }

func (f *form) prev() { f.focus = (f.focus + len(f.fields) - 1) % len(f.fields) }

func (f form) last() bool { return f.focus == len(f.fields)-1 }

func (f form) value(i int) string { return strings.TrimSpace(f.fields[i].value) }

// auth reports whether the form belongs to the signed-out screens.
func (f form) auth() bool { return f.kind == formSignIn || f.kind == formRegister }

func (f form) profileUpdate() entities.ProfileUpdate {
	var upd entities.ProfileUpdate
	if v := f.value(0); v != "" {
		upd.Username = &v
	}
	if v := f.value(1); v != "" {
		upd.AvatarURL = &v
	}
	if v := f.value(2); v != "" {
		upd.Bio = &v
	}
	return upd
}

func splitOptions(raw string) []string {
	return entities.CleanPollOptions(strings.Split(raw, ";"))
}
