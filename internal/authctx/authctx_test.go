package authctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFrom(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	_, ok = UserFrom(WithUser(context.Background(), &User{}))
	assert.False(t, ok, "empty uid is not signed in")

	ctx := WithUser(context.Background(), &User{UID: "u1", Email: "a@example.com"})
	u, ok := UserFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", u.UID)
}

func TestHasRole(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]any
		want   bool
	}{
		{"nil", nil, false},
		{"role string", map[string]any{"role": "staff"}, true},
		{"other role", map[string]any{"role": "user"}, false},
		{"flag", map[string]any{"staff": true}, true},
		{"false flag", map[string]any{"staff": false}, false},
		{"roles map", map[string]any{"roles": map[string]any{"staff": true}}, true},
		{"roles array", map[string]any{"roles": []any{"user", "staff"}}, true},
		{"roles strings", map[string]any{"roles": []string{"staff"}}, true},
		{"roles array miss", map[string]any{"roles": []any{"user"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasRole(tc.claims, "staff"))
		})
	}

	assert.False(t, HasRole(map[string]any{"role": ""}, ""))
	var nilUser *User
	assert.False(t, nilUser.HasRole("staff"))
}
