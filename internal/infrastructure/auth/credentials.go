package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sourcingops/backend/internal/infrastructure/config"
)

// ErrBadCredentials is returned for any failed login attempt. The reason
// (unknown user vs wrong password) is deliberately not distinguished.
var ErrBadCredentials = errors.New("bad credentials")

// CredentialChecker verifies the single operator credential configured for
// the deployment. The password is stored as a bcrypt hash in config, never
// in the database.
type CredentialChecker struct {
	operatorUser string
	passwordHash []byte
}

// NewCredentialChecker creates a credential checker from JWT config
func NewCredentialChecker(cfg config.JWTConfig) *CredentialChecker {
	return &CredentialChecker{
		operatorUser: cfg.OperatorUser,
		passwordHash: []byte(cfg.OperatorPasswordHash),
	}
}

// Verify checks the supplied username and password. Both checks always
// run so response timing does not leak which one failed.
func (c *CredentialChecker) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.operatorUser)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))

	if !userOK || passErr != nil {
		return ErrBadCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for the config file. Used
// by the credential generation tool.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
