package http

type Request struct {
	Method  string     `json:"method"`
	URL     string     `json:"url"`
	Headers HeaderList `json:"headers"`
	Body    []byte     `json:"body,omitempty"`
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers.Add(key, value)
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}
