package mockrev

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revspeech/rev-go/internal/pkg/test"
	"github.com/revspeech/rev-go/pkg/rev"
)

var (
	tData *Data
	tEcho *echo.Echo
)

func initTest(t *testing.T) {
	t.Helper()
	tData = &Data{PageSize: 8, Store: NewStore()}
	tEcho = initRoutes(tData)
}

func newReq(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.Nil(t, err)
		req = httptest.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Rev cl13nt:us3r")
	return req
}

func newOrderRequest(t *testing.T, inputs ...rev.Input) *rev.OrderRequest {
	t.Helper()
	opts, err := rev.NewTranscriptionOptions(inputs)
	require.Nil(t, err)
	return rev.NewOrderRequestWithTranscription(opts)
}

func TestLive(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	test.Code(t, tEcho, req, http.StatusOK)
}

func TestNoAuth_Fails(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	test.Code(t, tEcho, req, http.StatusUnauthorized)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer olia")
	test.Code(t, tEcho, req, http.StatusUnauthorized)
}

func TestListOrders_Empty(t *testing.T) {
	initTest(t)
	resp := test.Code(t, tEcho, newReq(t, http.MethodGet, "/api/v1/orders?page=0", nil), http.StatusOK)
	page := test.Decode[rev.OrdersListPage](t, resp.Body)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, page.Orders)
}

func TestSubmitOrder(t *testing.T) {
	initTest(t)
	resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders",
		newOrderRequest(t, rev.Input{ExternalLink: "https://x"})), http.StatusCreated)

	location := resp.Header().Get("Location")
	require.NotEmpty(t, location)
	parts := strings.Split(location, "/")
	number := parts[len(parts)-1]

	resp = test.Code(t, tEcho, newReq(t, http.MethodGet, "/api/v1/orders/"+number, nil), http.StatusOK)
	order := test.Decode[rev.Order](t, resp.Body)
	assert.Equal(t, rev.OrderStatusInProgress, order.Status)
	require.NotNil(t, order.Transcription)
	require.Len(t, order.Sources(), 1)
}

func TestSubmitOrder_ValidationCodes(t *testing.T) {
	initTest(t)
	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{name: "no payment", body: map[string]interface{}{"transcription_options": map[string]interface{}{}},
			code: rev.CodeMissingPaymentInfo},
		{name: "no options", body: map[string]interface{}{"payment": map[string]string{"type": "AccountBalance"}},
			code: rev.CodeOptionsNotSpecified},
		{name: "no inputs", body: map[string]interface{}{"payment": map[string]string{"type": "AccountBalance"},
			"transcription_options": map[string]interface{}{}}, code: rev.CodeMissingInputs},
		{name: "both uri and link", body: newOrderRequest(t, rev.Input{URI: "u", ExternalLink: "l"}),
			code: rev.CodeExternalLinkAndURISpecified},
		{name: "no uri nor link", body: newOrderRequest(t, rev.Input{}), code: rev.CodeExternalLinkOrURINotSpecified},
		{name: "unknown uri", body: newOrderRequest(t, rev.Input{URI: "urn:rev:inputmedia:xxx"}),
			code: rev.CodeInvalidInputs},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders", tc.body), http.StatusBadRequest)
			res := test.Decode[map[string]interface{}](t, resp.Body)
			assert.Equal(t, float64(tc.code), res["code"])
		})
	}
}

func TestSubmitOrder_NoInputsCase(t *testing.T) {
	initTest(t)
	body := map[string]interface{}{"payment": map[string]string{"type": ""}}
	resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders", body), http.StatusBadRequest)
	res := test.Decode[map[string]interface{}](t, resp.Body)
	assert.Equal(t, float64(rev.CodeMissingPaymentType), res["code"])
}

func TestPostInput_Link(t *testing.T) {
	initTest(t)
	resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/inputs",
		map[string]string{"url": "https://x/video.mp4"}), http.StatusCreated)
	uri := resp.Header().Get("Location")
	assert.True(t, strings.HasPrefix(uri, "urn:rev:inputmedia:"), uri)
	assert.True(t, tData.Store.HasInput(uri))
}

func TestPostInput_Link_NoFilename_Fails(t *testing.T) {
	initTest(t)
	resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/inputs",
		map[string]string{"url": "https://x/"}), http.StatusBadRequest)
	res := test.Decode[map[string]interface{}](t, resp.Body)
	assert.Equal(t, float64(rev.CodeUnspecifiedFilename), res["code"])
}

func TestPostInput_Binary(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inputs", strings.NewReader("audio bytes"))
	req.Header.Set(echo.HeaderAuthorization, "Rev cl13nt:us3r")
	req.Header.Set(echo.HeaderContentType, "audio/mpeg")
	req.Header.Set("Content-Disposition", `attachment; filename="interview.mp3"`)
	resp := test.Code(t, tEcho, req, http.StatusCreated)
	assert.True(t, tData.Store.HasInput(resp.Header().Get("Location")))
}

func TestSubmitOrder_WithUploadedInput(t *testing.T) {
	initTest(t)
	uri := tData.Store.AddInput("interview.mp3", "audio/mpeg")
	resp := test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders",
		newOrderRequest(t, rev.Input{URI: uri})), http.StatusCreated)
	assert.NotEmpty(t, resp.Header().Get("Location"))
}

func TestCancelOrder(t *testing.T) {
	initTest(t)
	number := tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders/"+number+"/cancel", nil), http.StatusNoContent)
	order := tData.Store.GetOrder(number)
	assert.Equal(t, rev.OrderStatusCancelled, order.Status)
}

func TestCancelOrder_Complete_Fails(t *testing.T) {
	initTest(t)
	number := tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	require.True(t, tData.Store.CompleteOrder(number, "done"))
	test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders/"+number+"/cancel", nil), http.StatusForbidden)
}

func TestCancelOrder_NotFound(t *testing.T) {
	initTest(t)
	test.Code(t, tEcho, newReq(t, http.MethodPost, "/api/v1/orders/TC1/cancel", nil), http.StatusNotFound)
}

func TestAttachmentContent(t *testing.T) {
	initTest(t)
	number := tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	require.True(t, tData.Store.CompleteOrder(number, "the transcript"))
	order := tData.Store.GetOrder(number)
	require.Len(t, order.Transcripts(), 1)
	id := order.Transcripts()[0].ID

	resp := test.Code(t, tEcho, newReq(t, http.MethodGet, "/api/v1/attachments/"+id, nil), http.StatusOK)
	meta := test.Decode[rev.Attachment](t, resp.Body)
	assert.Equal(t, rev.AttachmentKindTranscript, meta.Kind)

	resp = test.Code(t, tEcho, newReq(t, http.MethodGet, "/api/v1/attachments/"+id+"/content", nil), http.StatusOK)
	assert.Equal(t, "the transcript", test.RStr(t, resp.Body))
}

func TestAttachmentContent_NotAcceptable(t *testing.T) {
	initTest(t)
	number := tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	require.True(t, tData.Store.CompleteOrder(number, "the transcript"))
	id := tData.Store.GetOrder(number).Transcripts()[0].ID

	req := newReq(t, http.MethodGet, "/api/v1/attachments/"+id+"/content", nil)
	req.Header.Set("Accept", rev.MimePdf)
	test.Code(t, tEcho, req, http.StatusNotAcceptable)

	req = newReq(t, http.MethodGet, "/api/v1/attachments/"+id+"/content", nil)
	req.Header.Set("Accept", "text/plain; charset=utf-8")
	test.Code(t, tEcho, req, http.StatusOK)
}

func TestCompleteOrder_Mock(t *testing.T) {
	initTest(t)
	number := tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	req := httptest.NewRequest(http.MethodPost, "/mock/orders/"+number+"/complete?text=done", nil)
	test.Code(t, tEcho, req, http.StatusNoContent)
	assert.Equal(t, rev.OrderStatusComplete, tData.Store.GetOrder(number).Status)
}

func TestPagination(t *testing.T) {
	initTest(t)
	tData.PageSize = 2
	for i := 0; i < 5; i++ {
		tData.Store.AddOrder(newOrderRequest(t, rev.Input{ExternalLink: "https://x"}))
	}
	resp := test.Code(t, tEcho, newReq(t, http.MethodGet, "/api/v1/orders?page=2", nil), http.StatusOK)
	page := test.Decode[rev.OrdersListPage](t, resp.Body)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 2, page.ResultsPerPage)
	require.Len(t, page.Orders, 1)
}
