package i

import "github.com/beka-birhanu/vinom-navigator/identity"

// Authenticator registers operators and issues their access tokens.
type Authenticator interface {
	Register(name, secret string) error
	SignIn(name, secret string) (*identity.Operator, string, error)
}
