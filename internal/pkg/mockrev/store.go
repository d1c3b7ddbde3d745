package mockrev

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/revspeech/rev-go/pkg/rev"
)

type inputData struct {
	URI         string
	Filename    string
	ContentType string
}

type attachmentData struct {
	Meta        rev.Attachment
	Content     []byte
	ContentType string
}

// Store keeps emulator state in memory
type Store struct {
	lock        sync.Mutex
	orders      []*rev.Order
	inputs      map[string]*inputData
	attachments map[string]*attachmentData
	nextOrder   int
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{inputs: map[string]*inputData{}, attachments: map[string]*attachmentData{}, nextOrder: 1}
}

// AddInput registers a posted input and returns its URI
func (s *Store) AddInput(filename, contentType string) string {
	s.lock.Lock()
	defer s.lock.Unlock()
	res := "urn:rev:inputmedia:" + strings.ReplaceAll(uuid.New().String(), "-", "")
	s.inputs[res] = &inputData{URI: res, Filename: filename, ContentType: contentType}
	return res
}

// HasInput says if the URI was created by a post to inputs
func (s *Store) HasInput(uri string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.inputs[uri]
	return ok
}

// AddOrder creates an order from a validated request and returns the order number
func (s *Store) AddOrder(req *rev.OrderRequest) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	order := &rev.Order{Status: rev.OrderStatusInProgress, ClientRef: req.ClientRef,
		Attachments: []rev.Attachment{}, Comments: []rev.Comment{}}
	var inputs []rev.Input
	if req.TranscriptionOptions != nil {
		order.OrderNumber = fmt.Sprintf("TC%08d", s.nextOrder)
		verbatim, timestamps := false, false
		if req.TranscriptionOptions.Verbatim != nil {
			verbatim = *req.TranscriptionOptions.Verbatim
		}
		if req.TranscriptionOptions.Timestamps != nil {
			timestamps = *req.TranscriptionOptions.Timestamps
		}
		order.Transcription = &rev.TranscriptionInfo{Verbatim: verbatim, Timestamps: timestamps}
		inputs = req.TranscriptionOptions.Inputs
	} else {
		order.OrderNumber = fmt.Sprintf("CP%08d", s.nextOrder)
		order.Caption = &rev.CaptionInfo{}
		inputs = req.CaptionOptions.Inputs
	}
	s.nextOrder++

	for _, in := range inputs {
		name := in.ExternalLink
		if data, ok := s.inputs[in.URI]; ok {
			name = data.Filename
		}
		s.addAttachmentLocked(order, rev.AttachmentKindMedia, name, nil, "")
	}
	s.orders = append(s.orders, order)
	return order.OrderNumber
}

// GetOrder returns the order with the given number or nil
func (s *Store) GetOrder(number string) *rev.Order {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.findLocked(number)
}

func (s *Store) findLocked(number string) *rev.Order {
	for _, o := range s.orders {
		if o.OrderNumber == number {
			return o
		}
	}
	return nil
}

// GetOrdersPage returns one page of orders, optionally filtered by clientRef
func (s *Store) GetOrdersPage(page, pageSize int, clientRef string) *rev.OrdersListPage {
	s.lock.Lock()
	defer s.lock.Unlock()

	filtered := []rev.Order{}
	for _, o := range s.orders {
		if clientRef == "" || o.ClientRef == clientRef {
			filtered = append(filtered, *o)
		}
	}
	res := &rev.OrdersListPage{TotalCount: len(filtered), ResultsPerPage: pageSize, Page: page, Orders: []rev.Order{}}
	from := page * pageSize
	for i := from; i < len(filtered) && i < from+pageSize; i++ {
		res.Orders = append(res.Orders, filtered[i])
	}
	return res
}

// CancelOrder cancels the order. It fails with ok=false when the order
// is already complete - the cancellation window has passed
func (s *Store) CancelOrder(number string) (found, ok bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	order := s.findLocked(number)
	if order == nil {
		return false, false
	}
	if order.Status == rev.OrderStatusComplete {
		return true, false
	}
	order.Status = rev.OrderStatusCancelled
	return true, true
}

// CompleteOrder marks the order complete and attaches a deliverable
func (s *Store) CompleteOrder(number, text string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	order := s.findLocked(number)
	if order == nil {
		return false
	}
	order.Status = rev.OrderStatusComplete
	kind := rev.AttachmentKindTranscript
	if order.Caption != nil {
		kind = rev.AttachmentKindCaption
	}
	s.addAttachmentLocked(order, kind, order.OrderNumber+"_result.txt", []byte(text), "text/plain")
	return true
}

// GetAttachment returns attachment data by id or nil
func (s *Store) GetAttachment(id string) (*rev.Attachment, []byte, string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	data, ok := s.attachments[id]
	if !ok {
		return nil, nil, ""
	}
	return &data.Meta, data.Content, data.ContentType
}

func (s *Store) addAttachmentLocked(order *rev.Order, kind, name string, content []byte, contentType string) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	meta := rev.Attachment{Kind: kind, ID: id, Name: name,
		Links: []rev.Link{{Rel: "content", Href: "/api/v1/attachments/" + id + "/content"}}}
	s.attachments[id] = &attachmentData{Meta: meta, Content: content, ContentType: contentType}
	order.Attachments = append(order.Attachments, meta)
}

// FilenameFromURL takes the last path segment of a media link
func FilenameFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	res := path.Base(u.Path)
	if res == "." || res == "/" {
		return ""
	}
	return res
}
