//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revspeech/rev-go/pkg/rev"
)

type config struct {
	serverURL  string
	httpclient *http.Client
	client     *rev.Client
}

var cfg config

func TestMain(m *testing.M) {
	cfg.serverURL = GetEnvOrFail("MOCK_SERVER_URL")
	cfg.httpclient = &http.Client{Timeout: time.Second * 30}

	tCtx, cf := context.WithTimeout(context.Background(), time.Second*20)
	defer cf()
	WaitForOpenOrFail(tCtx, cfg.serverURL)

	var err error
	cfg.client, err = rev.NewClientWithURL("int-client", "int-user", cfg.serverURL+"/api/v1")
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func ctxT(t *testing.T) context.Context {
	t.Helper()
	ctx, cf := context.WithTimeout(context.Background(), time.Second*20)
	t.Cleanup(func() { cf() })
	return ctx
}

func completeOrder(t *testing.T, number string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, cfg.serverURL+"/mock/orders/"+number+"/complete?text=int+test+result", nil)
	require.Nil(t, err)
	resp, err := cfg.httpclient.Do(req)
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func submitOrder(t *testing.T, clientRef string) string {
	t.Helper()
	uri, err := cfg.client.CreateInputFromLink(ctxT(t), "https://example.org/interview.mp3", "", "")
	require.Nil(t, err)

	opts, err := rev.NewTranscriptionOptions([]rev.Input{{URI: uri}})
	require.Nil(t, err)
	orderRequest := rev.NewOrderRequestWithTranscription(opts)
	orderRequest.ClientRef = clientRef

	number, err := cfg.client.SubmitOrder(ctxT(t), orderRequest)
	require.Nil(t, err)
	require.NotEmpty(t, number)
	return number
}

func TestOrderLifecycle(t *testing.T) {
	number := submitOrder(t, "int-lifecycle")

	order, err := cfg.client.GetOrder(ctxT(t), number)
	require.Nil(t, err)
	assert.Equal(t, rev.OrderStatusInProgress, order.Status)
	assert.Len(t, order.Sources(), 1)
	assert.Empty(t, order.Transcripts())

	completeOrder(t, number)

	order, err = cfg.client.GetOrder(ctxT(t), number)
	require.Nil(t, err)
	assert.Equal(t, rev.OrderStatusComplete, order.Status)
	require.Len(t, order.Transcripts(), 1)

	text, err := cfg.client.GetAttachmentContentAsString(ctxT(t), order.Transcripts()[0].ID)
	require.Nil(t, err)
	assert.Equal(t, "int test result", text)
}

func TestOrdersByClientRef(t *testing.T) {
	number := submitOrder(t, "int-by-ref")

	page, err := cfg.client.GetOrdersByClientRef(ctxT(t), "int-by-ref", 0)
	require.Nil(t, err)
	require.GreaterOrEqual(t, len(page.Orders), 1)
	assert.Equal(t, number, page.Orders[len(page.Orders)-1].OrderNumber)
}

func TestGetAllOrders(t *testing.T) {
	submitOrder(t, "int-all")

	orders, err := cfg.client.GetAllOrders(ctxT(t))
	require.Nil(t, err)
	assert.GreaterOrEqual(t, len(orders), 1)
}

func TestCancel(t *testing.T) {
	number := submitOrder(t, "int-cancel")
	require.Nil(t, cfg.client.CancelOrder(ctxT(t), number))

	order, err := cfg.client.GetOrder(ctxT(t), number)
	require.Nil(t, err)
	assert.Equal(t, rev.OrderStatusCancelled, order.Status)
}

func TestCancel_Complete_Fails(t *testing.T) {
	number := submitOrder(t, "int-cancel-complete")
	completeOrder(t, number)

	err := cfg.client.CancelOrder(ctxT(t), number)
	assert.True(t, errors.Is(err, rev.ErrForbidden))
}

func TestWrongAuth_Fails(t *testing.T) {
	client, err := rev.NewClientWithURL("", "", cfg.serverURL+"/api/v1")
	assert.NotNil(t, err)
	assert.Nil(t, client)
}

func TestAttachmentMetadata(t *testing.T) {
	number := submitOrder(t, "int-attachment")
	completeOrder(t, number)

	order, err := cfg.client.GetOrder(ctxT(t), number)
	require.Nil(t, err)
	require.Len(t, order.Transcripts(), 1)

	meta, err := cfg.client.GetAttachmentMetadata(ctxT(t), order.Transcripts()[0].ID)
	require.Nil(t, err)
	assert.Equal(t, rev.AttachmentKindTranscript, meta.Kind)

	_, err = cfg.client.GetAttachmentMetadata(ctxT(t), "no-such-id")
	assert.True(t, errors.Is(err, rev.ErrNotFound))
}
