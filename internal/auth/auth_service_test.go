package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/supabase-community/gotrue-go"
	supa "github.com/supabase-community/supabase-go"
)

// fakeBackend stands in for the hosted auth and table endpoints so the
// two-phase signup can be exercised without a network.
type fakeBackend struct {
	signupStatus int
	signupBody   string
	insertStatus int
	adminStatus  int

	profileInserts atomic.Int64
	adminDeletes   atomic.Int64
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/signup":
			w.WriteHeader(f.signupStatus)
			w.Write([]byte(f.signupBody))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/users":
			f.profileInserts.Add(1)
			w.WriteHeader(f.insertStatus)
			if f.insertStatus >= 400 {
				w.Write([]byte(`{"message":"insert failed"}`))
			} else {
				w.Write([]byte(`[]`))
			}
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/"):
			f.adminDeletes.Add(1)
			w.WriteHeader(f.adminStatus)
			w.Write([]byte(`{}`))
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestService(t *testing.T, f *fakeBackend) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	client, err := supa.NewClient(server.URL, "test-key", &supa.ClientOptions{})
	if err != nil {
		server.Close()
		t.Fatalf("Failed to create test client: %v", err)
	}
	admin := gotrue.New("", "service-key").
		WithCustomGoTrueURL(server.URL + "/auth/v1").
		WithToken("service-key")
	return NewService(client, admin), server
}

const testSignupBody = `{"access_token":"tok","refresh_token":"ref",` +
	`"id":"11111111-1111-1111-1111-111111111111","email":"new@example.com"}`

func TestSignUpAlreadyRegistered(t *testing.T) {
	f := &fakeBackend{
		signupStatus: http.StatusUnprocessableEntity,
		signupBody:   `{"code":422,"msg":"User already registered"}`,
	}
	s, server := newTestService(t, f)
	defer server.Close()

	_, err := s.SignUp("dup@example.com", "secret123", "Alice")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("Expected ErrAlreadyRegistered, got %v", err)
	}
	if f.profileInserts.Load() != 0 {
		t.Errorf("Expected no profile row after a rejected signup, got %d inserts", f.profileInserts.Load())
	}
}

func TestSignUpRollsBackOnProfileFailure(t *testing.T) {
	f := &fakeBackend{
		signupStatus: http.StatusOK,
		signupBody:   testSignupBody,
		insertStatus: http.StatusInternalServerError,
		adminStatus:  http.StatusOK,
	}
	s, server := newTestService(t, f)
	defer server.Close()

	_, err := s.SignUp("new@example.com", "secret123", "Alice")
	if !errors.Is(err, ErrProfileFailed) {
		t.Fatalf("Expected ErrProfileFailed, got %v", err)
	}
	if f.adminDeletes.Load() != 1 {
		t.Errorf("Expected the auth identity rolled back once, got %d deletes", f.adminDeletes.Load())
	}
}

func TestSignUpSurfacesFailedRollback(t *testing.T) {
	f := &fakeBackend{
		signupStatus: http.StatusOK,
		signupBody:   testSignupBody,
		insertStatus: http.StatusInternalServerError,
		adminStatus:  http.StatusInternalServerError,
	}
	s, server := newTestService(t, f)
	defer server.Close()

	_, err := s.SignUp("new@example.com", "secret123", "Alice")
	if !errors.Is(err, ErrSignupFailed) {
		t.Fatalf("Expected ErrSignupFailed when the rollback cannot be confirmed, got %v", err)
	}
	if f.adminDeletes.Load() != 1 {
		t.Errorf("Expected one rollback attempt, got %d", f.adminDeletes.Load())
	}
}

func TestSignUpSuccess(t *testing.T) {
	f := &fakeBackend{
		signupStatus: http.StatusOK,
		signupBody:   testSignupBody,
		insertStatus: http.StatusCreated,
	}
	s, server := newTestService(t, f)
	defer server.Close()

	session, err := s.SignUp("new@example.com", "secret123", "Alice")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if session.AccessToken != "tok" || session.UserID != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("Unexpected session: %+v", session)
	}
	if f.profileInserts.Load() != 1 {
		t.Errorf("Expected exactly one profile insert, got %d", f.profileInserts.Load())
	}
	if f.adminDeletes.Load() != 0 {
		t.Errorf("Did not expect a rollback on success, got %d deletes", f.adminDeletes.Load())
	}
}

func TestWithRedirect(t *testing.T) {
	got := withRedirect("https://x.supabase.co/auth/v1/authorize?provider=github", "http://localhost:3000/callback")
	want := "https://x.supabase.co/auth/v1/authorize?provider=github&redirect_to=http%3A%2F%2Flocalhost%3A3000%2Fcallback"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := withRedirect("https://x.supabase.co/authorize", "cb"); got != "https://x.supabase.co/authorize?redirect_to=cb" {
		t.Errorf("Expected ? separator on a bare URL, got %q", got)
	}
	if got := withRedirect("https://x.supabase.co/authorize", ""); got != "https://x.supabase.co/authorize" {
		t.Errorf("Expected the URL unchanged without a redirect, got %q", got)
	}
}

func TestUnlinkRequiresPassword(t *testing.T) {
	// The password check happens before any network call, so a service with
	// no clients is enough to exercise it.
	s := &Service{}

	err := s.UnlinkSocialAccount("token", "github", "")
	if !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("Expected ErrPasswordRequired, got %v", err)
	}
}

func TestProviderFromName(t *testing.T) {
	for _, name := range []string{"github", "twitter", "linkedin"} {
		if _, err := providerFromName(name); err != nil {
			t.Errorf("Expected %s to be a supported provider, got error: %v", name, err)
		}
	}
	if _, err := providerFromName("facebook"); err == nil {
		t.Error("Expected an error for an unsupported provider")
	}
}

func TestMetadataString(t *testing.T) {
	metadata := map[string]interface{}{
		"full_name": "Alice",
		"count":     3,
	}
	if got := metadataString(metadata, "full_name"); got != "Alice" {
		t.Errorf("Expected Alice, got %q", got)
	}
	if got := metadataString(metadata, "count"); got != "" {
		t.Errorf("Expected empty string for non-string value, got %q", got)
	}
	if got := metadataString(nil, "full_name"); got != "" {
		t.Errorf("Expected empty string for nil metadata, got %q", got)
	}
}
