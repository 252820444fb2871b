package auth

import (
	"github.com/dmitrijs2005/inkpost/internal/common"
)

// RequireAuth returns the caller's user id, or common.ErrUnauthenticated when
// the request carries no verified identity. Operations that create or modify
// content call it before doing anything else.
func RequireAuth(ac AuthContext) (string, error) {
	if !ac.Authenticated || ac.UserID == "" {
		return "", common.ErrUnauthenticated
	}
	return ac.UserID, nil
}
