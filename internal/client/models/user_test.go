package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{name: "nil", user: nil, want: ""},
		{name: "first name wins", user: &User{Prenom: "Awa", Name: "Diallo", Email: "a@x.io"}, want: "Awa"},
		{name: "last name", user: &User{Name: "Diallo", Email: "a@x.io"}, want: "Diallo"},
		{name: "email fallback", user: &User{Email: "a@x.io"}, want: "a@x.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
