package client

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/microauth/internal/logging"
	"github.com/dmitrijs2005/microauth/internal/server/auth"
	"github.com/dmitrijs2005/microauth/internal/server/httpapi"
	"github.com/dmitrijs2005/microauth/internal/server/password"
	"github.com/dmitrijs2005/microauth/internal/server/storage"
	"github.com/dmitrijs2005/microauth/internal/server/users"
)

func newTestAPI(t *testing.T) *Client {
	t.Helper()

	us := users.NewService(
		storage.NewMemory(),
		password.NewHasher(bcrypt.MinCost),
		auth.NewIssuer([]byte("test-secret"), 0),
	)
	s := httpapi.NewServer(":0", logging.NewJSON(io.Discard), us, "*")

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestClient_RoundTrip(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	view, err := c.Register(ctx, "alice1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice1", view["username"])
	assert.NotEmpty(t, view["token"])

	view, err = c.SignIn(ctx, "alice1", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, view["token"])

	exists, err := c.CheckUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.CheckUsername(ctx, "bob2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_ServerErrorsSurfaceMessage(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice1", "secret1")
	require.NoError(t, err)

	_, err = c.Register(ctx, "alice1", "secret1")
	require.Error(t, err)
	assert.Equal(t, "an account already exists for 'alice1'", err.Error())

	_, err = c.SignIn(ctx, "alice1", "wrong")
	require.Error(t, err)
	assert.Equal(t, "error signing in 'alice1'", err.Error())
}
