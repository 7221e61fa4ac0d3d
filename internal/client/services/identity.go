package services

// IdentityProvider resolves the signed-in user. ok is false when nobody is
// signed in.
type IdentityProvider interface {
	CurrentUserID() (id string, ok bool)
}

// StaticIdentity is an IdentityProvider fixed to one user id; the empty id
// means signed out.
type StaticIdentity string

func (s StaticIdentity) CurrentUserID() (string, bool) {
	return string(s), s != ""
}
