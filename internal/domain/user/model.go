package user

import "time"

type Profile struct {
	UID         string `firestore:"uid" json:"uid"`
	Email       string `firestore:"email,omitempty" json:"email,omitempty"`
	DisplayName string `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL    string `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`

	Role     string   `firestore:"role,omitempty" json:"role,omitempty"`
	Roles    []string `firestore:"roles,omitempty" json:"roles,omitempty"`
	IsActive bool     `firestore:"isActive" json:"isActive"`

	LastLoginAt time.Time `firestore:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (p Profile) HasRole(r string) bool {
	if p.Role == r {
		return true
	}
	for _, x := range p.Roles {
		if x == r {
			return true
		}
	}
	return false
}

// LoginUser is what the identity provider reports for a signed-in user.
// Nil fields are stored as null.
type LoginUser struct {
	UID         string
	Email       *string
	DisplayName *string
	PhotoURL    *string
}

const (
	DefaultRole = "user"
)
