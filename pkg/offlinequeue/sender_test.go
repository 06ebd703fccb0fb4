package offlinequeue_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizfolio/bizfolio-api/pkg/offlinequeue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_CarriesIdempotencyKeyAndAuth(t *testing.T) {
	var gotMethod, gotPath, gotKey, gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := offlinequeue.NewHTTPSender(server.URL, "field-device-token")
	err := sender.Send(context.Background(), &offlinequeue.Mutation{
		IdempotencyKey: "device-42-seq-7",
		Method:         "POST",
		Endpoint:       "/api/v1/invoices",
		Payload:        []byte(`{"client_id":"abc"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/api/v1/invoices", gotPath)
	assert.Equal(t, "device-42-seq-7", gotKey)
	assert.Equal(t, "Bearer field-device-token", gotAuth)
	assert.JSONEq(t, `{"client_id":"abc"}`, gotBody)
}

func TestHTTPSender_DomainRejectionKeepsMutationQueued(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	q := openQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &offlinequeue.Mutation{
		Method:   "POST",
		Endpoint: "/api/v1/payments",
		Payload:  []byte(`{"amount":"-1"}`),
	}))

	sent, err := q.Drain(ctx, offlinequeue.NewHTTPSender(server.URL, ""))
	require.Error(t, err)
	assert.Zero(t, sent)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)
	assert.Contains(t, *pending[0].LastError, "422")
}
