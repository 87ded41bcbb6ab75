package domain

const (
	RoleOperator = "operator"
	RoleMember   = "member"
)

// Actor is the identity issuing a request. It is never persisted.
type Actor struct {
	ID Identity
	// FallbackName is the platform-supplied handle used if the actor's
	// profile has to be created.
	FallbackName string
	Role         string
}
