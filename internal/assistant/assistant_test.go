package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-gateway/internal/common/config"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(config.AssistantConfig{
		APIKey:  "key",
		Model:   "gemini-2.0-flash",
		Timeout: 2000,
	}, logger.NewNoOpLogger(), WithBaseURL(server.URL))
}

func replyJSON(text string) string {
	return `{"candidates": [{"content": {"parts": [{"text": ` + string(mustJSON(text)) + `}]}}]}`
}

func mustJSON(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

func TestAskSendsCatalogContext(t *testing.T) {
	var captured generateRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(replyJSON("The hair oil works on all hair types.")))
	})

	products := []models.Product{{Name: "Botanical Hair Oil", Category: "haircare", Price: 780, Description: "A nourishing oil."}}
	reply, err := svc.Ask(context.Background(), "Which oil do you sell?", products)

	require.NoError(t, err)
	assert.Equal(t, "The hair oil works on all hair types.", reply)

	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.Contents, 1)
	prompt := captured.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Botanical Hair Oil")
	assert.Contains(t, prompt, "Which oil do you sell?")
}

func TestAskWithoutProductsSendsBareQuestion(t *testing.T) {
	var captured generateRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(replyJSON("Hello!")))
	})

	_, err := svc.Ask(context.Background(), "Hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "Hi", captured.Contents[0].Parts[0].Text)
}

func TestAskRetriesOnceOnTransient(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(replyJSON("Recovered.")))
	})

	reply, err := svc.Ask(context.Background(), "Hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "Recovered.", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAskTransientExhaustion(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Ask(context.Background(), "Hi", nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one retry")
}

func TestAskClientErrorNotRetried(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := svc.Ask(context.Background(), "Hi", nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAskUnconfiguredIsConfigError(t *testing.T) {
	svc := New(config.AssistantConfig{Model: "gemini-2.0-flash"}, logger.NewNoOpLogger())

	assert.False(t, svc.Configured())

	_, err := svc.Ask(context.Background(), "Hi", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
}

func TestAskEmptyCandidatesIsValidationError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := svc.Ask(context.Background(), "Hi", nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestDescribeCatalogTruncatesDescriptions(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}

	out := describeCatalog([]models.Product{{Name: "X", Category: "skincare", Price: 10, Description: string(long)}})

	assert.Contains(t, out, "...")
	assert.Less(t, len(out), 200)
}
