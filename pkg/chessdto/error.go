package chessdto

// DomainError is the JSON body of a failed status request.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}
