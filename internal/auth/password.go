// Package auth: password hashing.
//
// WHY BCRYPT?
// A password hash has to be slow on purpose. Fast digests (MD5, SHA-256)
// let an attacker who steals the users collection try billions of guesses
// per second on a GPU. bcrypt makes every guess cost real CPU time.
//
// What bcrypt handles for us:
//   - a fresh random salt per hash, so two people who pick "hunter2" end up
//     with different stored values
//   - the salt and cost travel inside the hash string, so the user record
//     needs a single password field
//   - the work factor ("cost") is tunable as hardware gets faster
//
// Stored format, exactly as GenerateFromPassword returns it:
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (2^12 rounds)
//	 version
//
// THE 72-BYTE LIMIT:
// bcrypt only looks at the first 72 bytes of input. Rather than let two
// long passphrases that share a prefix hash identically, Hash refuses them.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// COST TUNING:
// Aim for 200-300ms per hash on the production box. Cost 12 lands there on
// current hardware. Lower makes offline cracking cheap; higher makes every
// login slow and lets a burst of sign-ins pin the CPU.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit; longer input would be silently
// truncated.
const maxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and checks password credentials with bcrypt.
//
// It is a struct rather than two free functions so the cost can be injected:
// service and handler tests run at bcrypt.MinCost and stay fast.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest lets other packages' tests pick a cheap cost
// (bcrypt.MinCost is 4). Never use it in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns a self-describing bcrypt hash. Store the whole string; Verify
// reads the salt and cost back out of it.
//
// Input over 72 bytes is rejected instead of silently truncated.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash, ErrPasswordMismatch when
// it does not.
//
// An empty hash never matches. Accounts created through GitHub have no
// password, and that must not turn into "any password works".
// CompareHashAndPassword runs in constant time for a given hash, so response
// timing does not reveal how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return ErrPasswordMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
