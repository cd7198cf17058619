package domain

// Identity is the result of decoding a request's bearer token:
// either Authenticated or Anonymous.
type Identity interface {
	isIdentity()
}

type Authenticated struct {
	Claims Claims
}

type Anonymous struct{}

func (Authenticated) isIdentity() {}
func (Anonymous) isIdentity()     {}
