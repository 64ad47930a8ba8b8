package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAccountTokenExchange(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	var assertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtBearerGrant, r.PostForm.Get("grant_type"))
		assertion = r.PostForm.Get("assertion")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.test","expires_in":3600}`))
	}))
	defer srv.Close()

	raw, err := json.Marshal(serviceAccount{
		ClientEmail: "uploads@ppg.iam.gserviceaccount.com",
		PrivateKey:  string(keyPEM),
		TokenURI:    srv.URL,
	})
	require.NoError(t, err)

	ts, err := newServiceAccountTokenSource(srv.Client(), string(raw))
	require.NoError(t, err)

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.test", token)

	parsed, err := jwt.Parse(assertion, func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "uploads@ppg.iam.gserviceaccount.com", claims["iss"])
	assert.Equal(t, readOnlyScope, claims["scope"])
	assert.Equal(t, srv.URL, claims["aud"])
}

func TestTokenExchangeSurfacesEndpointError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	require.NoError(t, err)
	_, _, err = doTokenRequest(srv.Client(), req, "token endpoint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestServiceAccountRequiresEmailAndKey(t *testing.T) {
	t.Parallel()

	_, err := newServiceAccountTokenSource(http.DefaultClient, `{"client_email":""}`)
	assert.Error(t, err)
}
