package rev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
)

// GetOrdersPage loads one page of existing orders, page numbering starts at 0
func (c *Client) GetOrdersPage(ctx context.Context, page int) (*OrdersListPage, error) {
	res := &OrdersListPage{}
	if err := c.getJSON(ctx, fmt.Sprintf("/orders?page=%d", page), res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetAllOrders loads all orders by walking the pages.
// Use with caution if the order list might be large
func (c *Client) GetAllOrders(ctx context.Context) ([]Order, error) {
	var res []Order
	page := 0
	for {
		ordersPage, err := c.GetOrdersPage(ctx, page)
		if err != nil {
			return nil, err
		}
		page++
		res = append(res, ordersPage.Orders...)
		if ordersPage.TotalCount <= 0 {
			return res, nil
		}
		if ordersPage.ResultsPerPage <= 0 {
			// the loop would never end on such a response
			return nil, fmt.Errorf("wrong results_per_page %d in orders response", ordersPage.ResultsPerPage)
		}
		if page*ordersPage.ResultsPerPage >= ordersPage.TotalCount {
			return res, nil
		}
	}
}

// GetOrdersByClientRef loads one page of orders having the given client reference
func (c *Client) GetOrdersByClientRef(ctx context.Context, clientRef string, page int) (*OrdersListPage, error) {
	if clientRef == "" {
		return nil, newValidationError("no clientRef")
	}
	res := &OrdersListPage{}
	path := fmt.Sprintf("/orders?clientRef=%s&page=%d", url.QueryEscape(clientRef), page)
	if err := c.getJSON(ctx, path, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetOrder returns the order with the given number, like 'TCXXXXXXXX'
func (c *Client) GetOrder(ctx context.Context, number string) (*Order, error) {
	res := &Order{}
	if err := c.getJSON(ctx, "/orders/"+number, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelOrder cancels the order with the given number.
// ErrForbidden indicates the cancellation window has passed
func (c *Client) CancelOrder(ctx context.Context, number string) error {
	data, err := json.Marshal(map[string]string{"order_num": number})
	if err != nil {
		return err
	}
	resp, err := c.postExpect(ctx, fmt.Sprintf("/orders/%s/cancel", number),
		map[string]string{"Content-Type": "application/json"}, bytes.NewReader(data), 0,
		http.StatusCreated, http.StatusNoContent)
	if err != nil {
		return err
	}
	drainClose(resp.Body)
	return nil
}

// GetAttachmentMetadata returns info about an order attachment -
// a transcript, caption, translation or source file
func (c *Client) GetAttachmentMetadata(ctx context.Context, id string) (*Attachment, error) {
	res := &Attachment{}
	if err := c.getJSON(ctx, "/attachments/"+id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// OpenAttachmentContent starts a download of the attachment content and
// returns the body for progressive reading. The caller must close it.
// When mimeType is given it is sent as the Accept header, the server answers
// ErrNotAcceptable if it can't produce that representation
func (c *Client) OpenAttachmentContent(ctx context.Context, id, mimeType string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/attachments/"+id+"/content", nil)
	if err != nil {
		return nil, err
	}
	if mimeType != "" {
		req.Header.Set("Accept", mimeType)
		if isTextual(mimeType) {
			req.Header.Set("Accept-Charset", "utf-8")
		}
	}
	resp, err := c.invoke(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer drainClose(resp.Body)
		return nil, mapError(resp)
	}
	return resp.Body, nil
}

// GetAttachmentContent downloads the attachment content fully buffered
func (c *Client) GetAttachmentContent(ctx context.Context, id, mimeType string) ([]byte, error) {
	body, err := c.OpenAttachmentContent(ctx, id, mimeType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()
	res, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("can't read body: %w", err)
	}
	return res, nil
}

// GetAttachmentContentAsString downloads a transcript or translation
// attachment in its plain text representation
func (c *Client) GetAttachmentContentAsString(ctx context.Context, id string) (string, error) {
	res, err := c.GetAttachmentContent(ctx, id, MimeText)
	if err != nil {
		return "", err
	}
	return string(res), nil
}

// SaveAttachmentContent streams the attachment content into a file at the
// given path and returns the path. I/O errors are propagated as is
func (c *Client) SaveAttachmentContent(ctx context.Context, id, path, mimeType string) (string, error) {
	body, err := c.OpenAttachmentContent(ctx, id, mimeType)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()
	if _, err := io.Copy(file, body); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	goapp.Log.Debug().Str("ID", id).Str("path", path).Msg("saved attachment")
	return path, nil
}

// SubmitOrder submits a new order and returns the assigned order number.
// Input media must be posted to /inputs beforehand or referenced by external links.
// On validation failure the returned *BadRequestError carries the API error code
func (c *Client) SubmitOrder(ctx context.Context, orderRequest *OrderRequest) (string, error) {
	data, err := json.Marshal(orderRequest)
	if err != nil {
		return "", fmt.Errorf("can't marshal request: %w", err)
	}
	goapp.Log.Debug().Str("url", c.baseURL+"/orders").Msg("submit order")
	resp, err := c.postExpect(ctx, "/orders",
		map[string]string{"Content-Type": "application/json"}, bytes.NewReader(data), 0,
		http.StatusCreated)
	if err != nil {
		return "", err
	}
	defer drainClose(resp.Body)
	location := resp.Header.Get("Location")
	parts := strings.Split(location, "/")
	return parts[len(parts)-1], nil
}

// UploadInput streams a local file as source input for an order.
// It returns the URI identifying the new media, to be referenced
// from an OrderRequest input
func (c *Client) UploadInput(ctx context.Context, path, contentType string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()
	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=\"%s\"", filepath.Base(path)),
		"Content-Type":        contentType,
	}
	goapp.Log.Debug().Str("file", path).Msg("upload input")
	resp, err := c.postExpect(ctx, "/inputs", headers, file, info.Size(), http.StatusCreated)
	if err != nil {
		return "", err
	}
	defer drainClose(resp.Body)
	return resp.Header.Get("Location"), nil
}

type linkInput struct {
	URL         string `json:"url"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// CreateInputFromLink asks the server to fetch source media from an external URL.
// Filename and contentType are optional, the server determines them when empty.
// It returns the URI identifying the new media
func (c *Client) CreateInputFromLink(ctx context.Context, mediaURL, filename, contentType string) (string, error) {
	data, err := json.Marshal(linkInput{URL: mediaURL, Filename: filename, ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("can't marshal request: %w", err)
	}
	resp, err := c.postExpect(ctx, "/inputs",
		map[string]string{"Content-Type": "application/json"}, bytes.NewReader(data), 0,
		http.StatusCreated)
	if err != nil {
		return "", err
	}
	defer drainClose(resp.Body)
	return resp.Header.Get("Location"), nil
}
