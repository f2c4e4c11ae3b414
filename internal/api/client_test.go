package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/session"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()

	s, err := session.Load(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	if token != "" {
		require.NoError(t, s.SetToken(token))
	}

	return s
}

func newClient(t *testing.T, token string, handler http.HandlerFunc) (*api.Client, *session.Session) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := newSession(t, token)

	return api.New(srv.URL, 5*time.Second, sess), sess
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string

	client, _ := newClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListLeases(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenFailsBeforeNetwork(t *testing.T) {
	called := false

	client, _ := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ListLeases(t.Context())
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.False(t, called, "no request must leave the client without a token")
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	client, sess := newClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListLeases(t.Context())
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Empty(t, sess.Token(), "a 401 must invalidate the stored token")
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Ce locataire a déjà un contrat actif"}`))
	})

	_, err := client.ListLeases(t.Context())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Ce locataire a déjà un contrat actif", apiErr.Error())
}

func TestClient_ErrorWithoutMessage(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.ListLeases(t.Context())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Erreur 502", apiErr.Error())
}

func TestClient_DeleteAcceptsNoContent(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/contrats/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteLease(t.Context(), 7))
}

func TestClient_SchemaRejectsMalformedResponse(t *testing.T) {
	// date_debut is required on a lease; a response without it must not
	// reach the collections.
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"appartement_id":2,"locataire_id":3}]`))
	})

	_, err := client.ListLeases(t.Context())

	var decErr *api.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "contrat", decErr.Schema)
}

func TestClient_ListLeases(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"appartement_id":2,"locataire_id":3,"date_debut":"2024-01-01","date_fin":null,"loyer_mensuel":"250000","caution":500000,"statut":"active"}
		]`))
	})

	leases, err := client.ListLeases(t.Context())
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, domain.Amount(250000), leases[0].MonthlyRent)
	assert.Nil(t, leases[0].EndDate)
	assert.True(t, leases[0].Ongoing())
}

func TestClient_CreateRejectsInvalidParams(t *testing.T) {
	called := false

	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateLease(t.Context(), domain.LeaseParams{
		UnitID:   1,
		TenantID: 2,
		// Missing start date and rent.
	})
	assert.Error(t, err)
	assert.False(t, called, "invalid params must not reach the server")
}

func TestClient_SubmitLeaseExit(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody map[string]any
	)

	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message":"Sortie enregistrée",
			"contrat":{"id":5,"appartement_id":2,"locataire_id":3,"date_debut":"2024-01-01","date_fin":"2025-03-01","loyer_mensuel":250000,"caution":500000,"statut":"ended"},
			"avertissementImpayes":"2 loyers impayés",
			"restitutionId":41
		}`))
	})

	exitDate := domain.NewDate(2025, time.March, 1)
	amount := domain.Amount(500000)

	resp, err := client.SubmitLeaseExit(t.Context(), 5, api.ExitRequest{
		Motif:             api.MotifTermination,
		ExitDate:          &exitDate,
		RestitutionAmount: &amount,
	}, "key-1")
	require.NoError(t, err)

	assert.Equal(t, "/contrats/5/sortie", gotPath)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "resiliation", gotBody["motif"])
	assert.Equal(t, "2025-03-01", gotBody["dateSortie"])

	assert.Equal(t, "Sortie enregistrée", resp.Message)
	assert.Equal(t, domain.LeaseEnded, resp.Lease.Status)
	assert.Equal(t, "2 loyers impayés", resp.UnpaidWarning)
	require.NotNil(t, resp.RestitutionID)
	assert.EqualValues(t, 41, *resp.RestitutionID)
	assert.Nil(t, resp.InspectionID)
}

func TestClient_Login(t *testing.T) {
	client, _ := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.fr", creds["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"fresh","user":{"id":1,"nom":"Awa","email":"a@b.fr","role":"admin"}}`))
	})

	user, token, err := client.Login(t.Context(), "a@b.fr", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestClient_UpdateProfileMultipart(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Awa", r.FormValue("nom"))

		f, hdr, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "avatar.png", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"nom":"Awa","email":"a@b.fr","role":"proprietaire"}`))
	})

	user, err := client.UpdateProfile(t.Context(), domain.ProfileParams{
		Name:       "Awa",
		Email:      "a@b.fr",
		AvatarName: "avatar.png",
		Avatar:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, user.Role)
}

func TestClient_MarkExpensePaid(t *testing.T) {
	client, _ := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/depenses/3/payer", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-02-10", body["date_paiement"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"type":"Plomberie","montant":80000,"date_emission":"2025-01-15","statut":"payee","date_paiement":"2025-02-10"}`))
	})

	exp, err := client.MarkExpensePaid(t.Context(), 3, domain.NewDate(2025, time.February, 10))
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPaid, exp.Status)
}
