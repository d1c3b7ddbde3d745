package rev

import "unicode/utf8"

// Limits enforced locally before an order request goes out
const (
	// GlossaryEntriesLimit is the max allowed glossary size per input
	GlossaryEntriesLimit = 1000
	// GlossaryEntryLengthLimit is the max allowed length of one glossary entry in characters
	GlossaryEntryLengthLimit = 255
	// SpeakerNamesLimit is the max allowed speaker list size per input
	SpeakerNamesLimit = 100
	// SpeakerNameLengthLimit is the max allowed length of one speaker name in characters
	SpeakerNameLengthLimit = 15
)

// Payment types
const (
	PaymentAccountBalance = "AccountBalance"
	PaymentCreditCard     = "CreditCard"
)

// Notification levels
const (
	// NotificationDetailed - a notification is posted whenever the order
	// gets a new status or comment
	NotificationDetailed = "Detailed"
	// NotificationFinalOnly - a notification is posted only when the order is complete
	NotificationFinalOnly = "FinalOnly"
)

// Caption output file formats accepted by the API
const (
	FormatSubRip     = "SubRip"
	FormatScc        = "Scc"
	FormatMcc        = "Mcc"
	FormatTtml       = "Ttml"
	FormatQTtext     = "QTtext"
	FormatTranscript = "Transcript"
	FormatWebVtt     = "WebVtt"
	FormatDfxp       = "Dfxp"
	FormatCheetahCap = "CheetahCap"
)

var outputFileFormats = map[string]bool{
	FormatSubRip:     true,
	FormatScc:        true,
	FormatMcc:        true,
	FormatTtml:       true,
	FormatQTtext:     true,
	FormatTranscript: true,
	FormatWebVtt:     true,
	FormatDfxp:       true,
	FormatCheetahCap: true,
}

// Speaker accents accepted by the API
const (
	AccentAmericanNeutral  = "AmericanNeutral"
	AccentAmericanSouthern = "AmericanSouthern"
	AccentAsian            = "Asian"
	AccentAustralian       = "Australian"
	AccentBritish          = "British"
	AccentIndian           = "Indian"
	AccentOther            = "Other"
	AccentUnknown          = "Unknown"
)

var supportedAccents = map[string]bool{
	AccentAmericanNeutral:  true,
	AccentAmericanSouthern: true,
	AccentAsian:            true,
	AccentAustralian:       true,
	AccentBritish:          true,
	AccentIndian:           true,
	AccentOther:            true,
	AccentUnknown:          true,
}

// Input references one source media for an order, either by the URI
// returned from posting to /inputs or by an external link. The server
// requires exactly one of the two.
// Optional metadata fields are pointers - a nil field stays out of
// the wire payload, which is not the same as sending a zero value
type Input struct {
	URI                string   `json:"uri,omitempty"`
	ExternalLink       string   `json:"external_link,omitempty"`
	AudioLengthSeconds *int     `json:"audio_length_seconds,omitempty"`
	VideoLengthSeconds *int     `json:"video_length_seconds,omitempty"`
	Glossary           []string `json:"glossary,omitempty"`
	SpeakerNames       []string `json:"speaker_names,omitempty"`
	Accents            []string `json:"accents,omitempty"`
}

func (in *Input) validate() error {
	if len(in.Glossary) > GlossaryEntriesLimit {
		return newValidationError("glossary has %d entries, max is %d", len(in.Glossary), GlossaryEntriesLimit)
	}
	for _, e := range in.Glossary {
		if utf8.RuneCountInString(e) > GlossaryEntryLengthLimit {
			return newValidationError("glossary entry '%s' is longer than %d", e, GlossaryEntryLengthLimit)
		}
	}
	if len(in.SpeakerNames) > SpeakerNamesLimit {
		return newValidationError("speaker list has %d entries, max is %d", len(in.SpeakerNames), SpeakerNamesLimit)
	}
	for _, s := range in.SpeakerNames {
		if utf8.RuneCountInString(s) > SpeakerNameLengthLimit {
			return newValidationError("speaker name '%s' is longer than %d", s, SpeakerNameLengthLimit)
		}
	}
	for _, a := range in.Accents {
		if !supportedAccents[a] {
			return newValidationError("unsupported accent '%s'", a)
		}
	}
	return nil
}

// TranscriptionOptions describe the inputs and flags for a transcription order
type TranscriptionOptions struct {
	Inputs     []Input `json:"inputs"`
	Verbatim   *bool   `json:"verbatim,omitempty"`
	Timestamps *bool   `json:"timestamps,omitempty"`
}

// NewTranscriptionOptions validates inputs and creates options for a transcription order.
// Inputs must have at least one element
func NewTranscriptionOptions(inputs []Input) (*TranscriptionOptions, error) {
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}
	return &TranscriptionOptions{Inputs: inputs}, nil
}

// CaptionOptions describe the inputs and output formats for a caption order
type CaptionOptions struct {
	Inputs            []Input  `json:"inputs"`
	OutputFileFormats []string `json:"output_file_formats,omitempty"`
	SubtitleLanguages []string `json:"subtitle_languages,omitempty"`
}

// NewCaptionOptions validates inputs and output formats and creates options
// for a caption order. Empty formats leave the choice to the server (SubRip)
func NewCaptionOptions(inputs []Input, formats ...string) (*CaptionOptions, error) {
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}
	for _, f := range formats {
		if !outputFileFormats[f] {
			return nil, newValidationError("invalid output file format '%s'", f)
		}
	}
	return &CaptionOptions{Inputs: inputs, OutputFileFormats: formats}, nil
}

func validateInputs(inputs []Input) error {
	if len(inputs) == 0 {
		return newValidationError("inputs must have at least one element")
	}
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Payment says how the order is paid for. The current protocol version
// supports only account balance for order submission
type Payment struct {
	Type string `json:"type"`
}

// NewPaymentWithAccountBalance creates the only payment kind
// accepted by the current API version
func NewPaymentWithAccountBalance() *Payment {
	return &Payment{Type: PaymentAccountBalance}
}

// Notification asks for an HTTP post to the given url on order progress
type Notification struct {
	URL   string `json:"url"`
	Level string `json:"level,omitempty"`
}

// NewNotification creates notification info, level defaults to FinalOnly
func NewNotification(url, level string) *Notification {
	if level == "" {
		level = NotificationFinalOnly
	}
	return &Notification{URL: url, Level: level}
}

// OrderRequest is the payload for submitting a new order.
// Set exactly one of TranscriptionOptions/CaptionOptions - the server
// rejects a request having none or both
type OrderRequest struct {
	Payment                 *Payment              `json:"payment"`
	TranscriptionOptions    *TranscriptionOptions `json:"transcription_options,omitempty"`
	CaptionOptions          *CaptionOptions       `json:"caption_options,omitempty"`
	ClientRef               string                `json:"client_ref,omitempty"`
	Comment                 string                `json:"comment,omitempty"`
	NonStandardTatGuarantee bool                  `json:"non_standard_tat_guarantee"`
	Notification            *Notification         `json:"notification,omitempty"`
}

// NewOrderRequestWithTranscription creates an order request for a transcription
// order paid from the account balance
func NewOrderRequestWithTranscription(opts *TranscriptionOptions) *OrderRequest {
	return &OrderRequest{Payment: NewPaymentWithAccountBalance(), TranscriptionOptions: opts}
}

// NewOrderRequestWithCaption creates an order request for a caption
// order paid from the account balance
func NewOrderRequestWithCaption(opts *CaptionOptions) *OrderRequest {
	return &OrderRequest{Payment: NewPaymentWithAccountBalance(), CaptionOptions: opts}
}

// Bool returns a pointer for optional boolean request fields
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer for optional numeric request fields
func Int(v int) *int {
	return &v
}
