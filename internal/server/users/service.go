// Package users implements the authentication core: registration, sign-in,
// and username-availability checks over a storage backend, a password
// hasher, and a token issuer. All validation rules and the uniqueness
// guarantee live here.
package users

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dmitrijs2005/microauth/internal/common"
	"github.com/dmitrijs2005/microauth/internal/server/auth"
	"github.com/dmitrijs2005/microauth/internal/server/password"
	"github.com/dmitrijs2005/microauth/internal/server/storage"
)

// Collection is the backend collection holding user records.
const Collection = "users"

const (
	usernameField = "username"
	passwordField = "password"
	tokenField    = "token"

	minPasswordLength = 6

	// bcrypt only keys from the first 72 bytes of input; longer passwords
	// are rejected up front rather than silently truncated.
	maxPasswordBytes = 72
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// RegisterRequest is the sign-up input. Extra carries any additional fields
// submitted alongside the credentials; they are persisted verbatim.
type RegisterRequest struct {
	Username string
	Password string
	Extra    map[string]any
}

// SignInRequest is the sign-in input.
type SignInRequest struct {
	Username string
	Password string
}

// Service orchestrates the storage backend, hasher, and issuer. It holds no
// per-user state of its own; the backend owns the canonical records.
type Service struct {
	backend storage.Backend
	hasher  *password.Hasher
	issuer  *auth.Issuer
	regs    *nameLocks
}

func NewService(backend storage.Backend, hasher *password.Hasher, issuer *auth.Issuer) *Service {
	return &Service{
		backend: backend,
		hasher:  hasher,
		issuer:  issuer,
		regs:    newNameLocks(),
	}
}

// Register validates the request, enforces username uniqueness, persists the
// user with a hashed password, and returns the stored user view with a
// freshly minted token. The existence check and save are serialized per
// username.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (storage.Record, error) {
	if req.Username == "" {
		return nil, common.NewValidation("username is required")
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, common.NewValidation("username is not valid")
	}
	if req.Password == "" {
		return nil, common.NewValidation("password is required")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, common.NewValidation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, common.NewValidation("password is too long")
	}

	unlock := s.regs.lock(req.Username)
	defer unlock()

	existing, err := s.findByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewConflict(fmt.Sprintf("an account already exists for '%s'", req.Username))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	rec := storage.Record{usernameField: req.Username, passwordField: hash}
	for k, v := range req.Extra {
		// reserved fields cannot be injected through extras
		if k == usernameField || k == passwordField || k == storage.IDField {
			continue
		}
		rec[k] = v
	}

	saved, err := s.backend.Save(ctx, Collection, rec)
	if err != nil {
		return nil, fmt.Errorf("error saving user: %w", err)
	}

	return s.viewWithToken(saved)
}

// SignIn verifies the submitted credentials and returns the user view with a
// freshly minted token. Unknown usernames and wrong passwords fail with the
// same authentication error, so error shape does not reveal which it was.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (storage.Record, error) {
	if req.Username == "" {
		return nil, common.NewValidation("username is required")
	}
	if req.Password == "" {
		return nil, common.NewValidation("password is required")
	}

	user, err := s.findByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, signInError(req.Username)
	}

	hash, _ := user[passwordField].(string)
	ok, err := s.hasher.Compare(req.Password, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, signInError(req.Username)
	}

	return s.viewWithToken(user)
}

// CheckUsername reports whether a user record exists for the exact username.
// Any string is accepted as a lookup key; no charset validation applies.
func (s *Service) CheckUsername(ctx context.Context, username string) (bool, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *Service) findByUsername(ctx context.Context, username string) (storage.Record, error) {
	user, err := s.backend.Find(ctx, Collection, storage.Record{usernameField: username})
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// viewWithToken strips the password hash from the stored record, signs the
// remaining view, and attaches the token.
func (s *Service) viewWithToken(user storage.Record) (storage.Record, error) {
	view := user.Clone()
	delete(view, passwordField)

	token, err := s.issuer.Issue(view)
	if err != nil {
		return nil, err
	}

	view[tokenField] = token
	return view, nil
}

func signInError(username string) error {
	return common.NewAuthentication(fmt.Sprintf("error signing in '%s'", username))
}
