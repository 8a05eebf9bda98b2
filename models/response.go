package models

// Response is the envelope every Holidaze endpoint wraps its payload in.
type Response[T any] struct {
	Data T        `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta is the pagination block of list responses. It is empty for single resources.
type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

// ErrorDetail is one entry of an error payload.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Path    []any  `json:"path,omitempty"`
}

// ErrorResponse is the body of a non-2xx Holidaze response. Message is set by some
// endpoints instead of Errors.
type ErrorResponse struct {
	Errors     []ErrorDetail `json:"errors"`
	Message    string        `json:"message"`
	Status     string        `json:"status,omitempty"`
	StatusCode int           `json:"statusCode,omitempty"`
}

// FirstMessage returns the most specific human-readable message in the payload.
func (e ErrorResponse) FirstMessage() string {
	for _, d := range e.Errors {
		if d.Message != "" {
			return d.Message
		}
	}
	return e.Message
}
