package users

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/microauth/internal/common"
	"github.com/dmitrijs2005/microauth/internal/server/auth"
	"github.com/dmitrijs2005/microauth/internal/server/password"
	"github.com/dmitrijs2005/microauth/internal/server/storage"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		storage.NewMemory(),
		password.NewHasher(bcrypt.MinCost),
		auth.NewIssuer([]byte(testSecret), 0),
	)
}

// failingBackend simulates a backend I/O fault on every operation.
type failingBackend struct{}

func (failingBackend) Save(ctx context.Context, collection string, rec storage.Record) (storage.Record, error) {
	return nil, common.NewStorage("save fault")
}

func (failingBackend) Find(ctx context.Context, collection string, pred storage.Record) (storage.Record, error) {
	return nil, common.NewStorage("find fault")
}

// countingBackend wraps Memory and counts operations, to assert that
// validation failures never reach storage.
type countingBackend struct {
	*storage.Memory
	saves int
	finds int
}

func (c *countingBackend) Save(ctx context.Context, collection string, rec storage.Record) (storage.Record, error) {
	c.saves++
	return c.Memory.Save(ctx, collection, rec)
}

func (c *countingBackend) Find(ctx context.Context, collection string, pred storage.Record) (storage.Record, error) {
	c.finds++
	return c.Memory.Find(ctx, collection, pred)
}

func TestRegister_Success(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	view, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, view["id"])
	assert.Equal(t, "alice1", view["username"])
	assert.NotContains(t, view, "password")

	token, _ := view["token"].(string)
	require.NotEmpty(t, token)

	payload, err := auth.NewIssuer([]byte(testSecret), 0).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice1", payload["username"])
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "token")
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		pwd      string
		wantMsg  string
	}{
		{"missing username", "", "secret1", "username is required"},
		{"username with space", "alice one", "secret1", "username is not valid"},
		{"username with at sign", "alice@1", "secret1", "username is not valid"},
		{"missing password", "alice1", "", "password is required"},
		{"short password", "alice1", "five5", "password must be at least 6 characters"},
		{"short multibyte password", "alice1", "ééé", "password must be at least 6 characters"},
		{"overlong password", "alice1", strings.Repeat("a", 73), "password is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &countingBackend{Memory: storage.NewMemory()}
			s := NewService(cb, password.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte(testSecret), 0))

			_, err := s.Register(context.Background(), RegisterRequest{Username: tt.username, Password: tt.pwd})
			require.Error(t, err)
			assert.Equal(t, common.KindValidation, common.KindOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Zero(t, cb.finds, "validation must fail before any storage access")
			assert.Zero(t, cb.saves)
		})
	}
}

func TestRegister_PasswordLengthBoundary(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "exact6", Password: "sixsix"})
	assert.NoError(t, err)

	_, err = s.Register(ctx, RegisterRequest{Username: "short5", Password: "five5"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 6 characters", err.Error())

	// length counts characters, not bytes
	_, err = s.Register(ctx, RegisterRequest{Username: "runes6", Password: "éééééé"})
	assert.NoError(t, err)

	_, err = s.Register(ctx, RegisterRequest{Username: "runes5", Password: "ééééé"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 6 characters", err.Error())
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "exact72", Password: strings.Repeat("a", 72)})
	assert.NoError(t, err)

	_, err = s.Register(ctx, RegisterRequest{Username: "over72", Password: strings.Repeat("a", 73)})
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "password is too long", err.Error())
}

func TestRegister_Conflict(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterRequest{Username: "alice1", Password: "different7"})
	require.Error(t, err)
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	assert.Equal(t, "an account already exists for 'alice1'", err.Error())
}

func TestRegister_ExtrasPreserved(t *testing.T) {
	s := newTestService(t)

	view, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice1",
		Password: "secret1",
		Extra:    map[string]any{"displayName": "Alice", "age": float64(30)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", view["displayName"])
	assert.Equal(t, float64(30), view["age"])
}

func TestRegister_ExtrasCannotOverrideReservedFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	view, err := s.Register(ctx, RegisterRequest{
		Username: "alice1",
		Password: "secret1",
		Extra:    map[string]any{"id": "forged", "password": "plaintext", "username": "other"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "forged", view["id"])
	assert.Equal(t, "alice1", view["username"])

	// the stored hash is untouched: signing in still works
	_, err = s.SignIn(ctx, SignInRequest{Username: "alice1", Password: "secret1"})
	assert.NoError(t, err)
}

func TestRegister_StoredPasswordIsHashed(t *testing.T) {
	backend := storage.NewMemory()
	s := NewService(backend, password.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte(testSecret), 0))
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	stored, err := backend.Find(ctx, Collection, storage.Record{"username": "alice1"})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored["password"])
	assert.NotEmpty(t, stored["password"])
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.Equal(t, common.KindConflict, common.KindOf(err))
	}
	assert.Equal(t, 1, successes, "exactly one concurrent registration may win")
}

func TestSignIn_Success(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	view, err := s.SignIn(ctx, SignInRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg["id"], view["id"])
	assert.Equal(t, "alice1", view["username"])
	assert.NotContains(t, view, "password")

	payload, err := auth.NewIssuer([]byte(testSecret), 0).Verify(view["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "alice1", payload["username"])
}

func TestSignIn_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.SignIn(ctx, SignInRequest{Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "username is required", err.Error())

	_, err = s.SignIn(ctx, SignInRequest{Username: "alice1"})
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "password is required", err.Error())
}

func TestSignIn_UniformFailure(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPwd := s.SignIn(ctx, SignInRequest{Username: "alice1", Password: "wrong"})
	require.Error(t, wrongPwd)
	assert.Equal(t, common.KindAuthentication, common.KindOf(wrongPwd))
	assert.Equal(t, "error signing in 'alice1'", wrongPwd.Error())

	_, noUser := s.SignIn(ctx, SignInRequest{Username: "nobody9", Password: "secret1"})
	require.Error(t, noUser)
	assert.Equal(t, common.KindAuthentication, common.KindOf(noUser))
	assert.Equal(t, "error signing in 'nobody9'", noUser.Error())
}

func TestCheckUsername(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	exists, err := s.CheckUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.NoError(t, err)

	exists, err = s.CheckUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.CheckUsername(ctx, "bob2")
	require.NoError(t, err)
	assert.False(t, exists)

	// no charset validation on lookup keys
	exists, err = s.CheckUsername(ctx, "not a username@")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorageFaultsPropagate(t *testing.T) {
	s := NewService(failingBackend{}, password.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte(testSecret), 0))
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Username: "alice1", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, common.KindStorage, common.KindOf(err))

	_, err = s.SignIn(ctx, SignInRequest{Username: "alice1", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, common.KindStorage, common.KindOf(err))

	_, err = s.CheckUsername(ctx, "alice1")
	require.Error(t, err)
	assert.Equal(t, common.KindStorage, common.KindOf(err))
}
