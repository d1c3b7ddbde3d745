package rev

import (
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses reported by the API
const (
	OrderStatusInProgress = "In Progress"
	OrderStatusComplete   = "Complete"
	OrderStatusCancelled  = "Cancelled"
)

// Attachment kinds
const (
	AttachmentKindTranscript  = "transcript"
	AttachmentKindTranslation = "translation"
	AttachmentKindCaption     = "caption"
	AttachmentKindMedia       = "media"
)

// Mime types accepted in the Accept header when getting attachment content
const (
	MimeDocx              = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDoc               = "application/msword"
	MimePdf               = "application/pdf"
	MimeText              = "text/plain"
	MimeYoutubeTranscript = "text/plain; format=youtube-transcript"
)

// Order represents a placed transcription, caption or translation order
type Order struct {
	OrderNumber   string             `json:"order_number"`
	Price         float64            `json:"price"`
	Status        string             `json:"status"`
	ClientRef     string             `json:"client_ref"`
	Attachments   []Attachment       `json:"attachments"`
	Comments      []Comment          `json:"comments"`
	Transcription *TranscriptionInfo `json:"transcription"`
	Caption       *CaptionInfo       `json:"caption"`
	Translation   *TranslationInfo   `json:"translation"`
}

// UnmarshalJSON fills the order and makes list fields safe to iterate
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	*o = Order(res)
	if o.Attachments == nil {
		o.Attachments = []Attachment{}
	}
	if o.Comments == nil {
		o.Comments = []Comment{}
	}
	return nil
}

// Transcripts returns attachments of the kind "transcript"
func (o *Order) Transcripts() []Attachment {
	return o.attachmentsOfKind(AttachmentKindTranscript)
}

// Translations returns attachments of the kind "translation"
func (o *Order) Translations() []Attachment {
	return o.attachmentsOfKind(AttachmentKindTranslation)
}

// Captions returns attachments of the kind "caption"
func (o *Order) Captions() []Attachment {
	return o.attachmentsOfKind(AttachmentKindCaption)
}

// Sources returns source media attachments
func (o *Order) Sources() []Attachment {
	return o.attachmentsOfKind(AttachmentKindMedia)
}

func (o *Order) attachmentsOfKind(kind string) []Attachment {
	res := []Attachment{}
	for _, a := range o.Attachments {
		if a.Kind == kind {
			res = append(res, a)
		}
	}
	return res
}

// TranscriptionInfo holds extra fields of a transcription order
type TranscriptionInfo struct {
	TotalLength        int  `json:"total_length"`
	TotalLengthSeconds int  `json:"total_length_seconds"`
	Verbatim           bool `json:"verbatim"`
	Timestamps         bool `json:"timestamps"`
}

// CaptionInfo holds extra fields of a caption order
type CaptionInfo struct {
	TotalLength        int `json:"total_length"`
	TotalLengthSeconds int `json:"total_length_seconds"`
}

// TranslationInfo holds extra fields of a translation order
type TranslationInfo struct {
	TotalWordCount          int    `json:"total_word_count"`
	SourceLanguageCode      string `json:"source_language_code"`
	DestinationLanguageCode string `json:"destination_language_code"`
}

// Attachment is a deliverable or source file associated with an order
type Attachment struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	AudioLength int    `json:"audio_length"`
	WordCount   int    `json:"word_count"`
	Links       []Link `json:"links"`
}

// UnmarshalJSON fills the attachment and makes links safe to iterate
func (a *Attachment) UnmarshalJSON(data []byte) error {
	type plain Attachment
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	*a = Attachment(res)
	if a.Links == nil {
		a.Links = []Link{}
	}
	return nil
}

// Link points to the actual file behind an attachment
type Link struct {
	Rel         string `json:"rel"`
	Href        string `json:"href"`
	ContentType string `json:"content-type"`
}

// Comment is an order comment with author and creation time
type Comment struct {
	By        string    `json:"by"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// UnmarshalJSON parses the comment accepting both full ISO-8601 timestamps
// and plain dates. The API sends no text field for an empty comment
func (c *Comment) UnmarshalJSON(data []byte) error {
	var res struct {
		By        string `json:"by"`
		Timestamp string `json:"timestamp"`
		Text      string `json:"text"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	c.By = res.By
	c.Text = res.Text
	if res.Timestamp != "" {
		ts, err := parseTimestamp(res.Timestamp)
		if err != nil {
			return err
		}
		c.Timestamp = ts
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, l := range []string{time.RFC3339, "2006-01-02"} {
		if res, err := time.Parse(l, s); err == nil {
			return res, nil
		}
	}
	return time.Time{}, fmt.Errorf("can't parse timestamp '%s'", s)
}

// OrdersListPage is one page of the order list
type OrdersListPage struct {
	TotalCount     int     `json:"total_count"`
	ResultsPerPage int     `json:"results_per_page"`
	Page           int     `json:"page"`
	Orders         []Order `json:"orders"`
}

// UnmarshalJSON fills the page and makes the order list safe to iterate
func (p *OrdersListPage) UnmarshalJSON(data []byte) error {
	type plain OrdersListPage
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	*p = OrdersListPage(res)
	if p.Orders == nil {
		p.Orders = []Order{}
	}
	return nil
}
