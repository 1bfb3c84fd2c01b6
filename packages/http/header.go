package http

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a single response or request header line.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// HeaderList keeps headers in the order they were received. Names may repeat.
type HeaderList []Header

// Add appends a header, keeping any existing header with the same name.
func (l *HeaderList) Add(name, value string) {
	*l = append(*l, Header{Name: name, Value: value})
}

// Get returns the value of the first header matching name, case-insensitively.
func (l HeaderList) Get(name string) string {
	for _, h := range l {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Values returns every value for name in order.
func (l HeaderList) Values(name string) []string {
	var values []string
	for _, h := range l {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// Has reports whether at least one header matches name.
func (l HeaderList) Has(name string) bool {
	for _, h := range l {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// Without returns a copy of the list minus every header matching one of names.
func (l HeaderList) Without(names ...string) HeaderList {
	out := make(HeaderList, 0, len(l))
	for _, h := range l {
		drop := false
		for _, name := range names {
			if strings.EqualFold(h.Name, name) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, h)
		}
	}
	return out
}

// Apply sets every header of the list on a net/http header, in order.
func (l HeaderList) Apply(h http.Header) {
	for _, header := range l {
		h.Add(header.Name, header.Value)
	}
}

// HeaderListFromWire converts net/http headers. http.Header does not keep the
// wire order across names, so names are sorted; values keep their received order.
func HeaderListFromWire(h http.Header) HeaderList {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make(HeaderList, 0, len(h))
	for _, k := range keys {
		for _, v := range h[k] {
			list.Add(k, v)
		}
	}
	return list
}
