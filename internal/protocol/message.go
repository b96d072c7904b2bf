package protocol

import "strconv"

// ActionHighlight is the only action understood by highlight workers.
const ActionHighlight = "highlight"

const _idPrefix = "highlight:"

// Request asks a worker to highlight a piece of code.
type Request struct {
	Action string `json:"action"`

	// Code is the raw text to highlight.
	Code string `json:"code"`

	// ID correlates the eventual Response with this request.
	ID string `json:"id"`

	// Languages holds language hints in order of preference.
	// If empty, the worker picks a language on its own.
	Languages []string `json:"languages"`
}

// NewRequest builds a highlight request.
// languages may be nil.
func NewRequest(id, code string, languages []string) Request {
	if languages == nil {
		// Always send a list, never null.
		languages = []string{}
	}
	return Request{
		Action:    ActionHighlight,
		Code:      code,
		ID:        id,
		Languages: languages,
	}
}

// Response is a worker's answer to a Request.
type Response struct {
	// ID of the Request this answers.
	ID string `json:"id"`

	// Language the worker used.
	// Empty if the worker could not tell.
	Language string `json:"language,omitempty"`

	// Value is the highlighted markup.
	// It is meant to be inserted into a document verbatim.
	Value string `json:"value"`
}

// ID builds the correlation ID for the n-th highlight request.
func ID(n uint64) string {
	return _idPrefix + strconv.FormatUint(n, 10)
}
