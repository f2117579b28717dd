package domain

// Role names the kind of marketplace account.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
)

// User is the account profile returned by the auth endpoints.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
}

// IsSeller reports whether the user manages listings and fulfils orders.
func (u User) IsSeller() bool {
	return u.Role == RoleSeller
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Registration captures fields expected by the register endpoint.
type Registration struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role,omitempty"`
}
