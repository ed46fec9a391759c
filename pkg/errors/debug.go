package errors

import (
	"errors"
	"fmt"
	"net/url"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamURL string `json:"upstream_url,omitempty"`
	UpstreamOp  string `json:"upstream_op,omitempty"`
	Timeout     bool   `json:"timeout,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		d.UpstreamOp = urlErr.Op
		d.UpstreamURL = redactQuery(urlErr.URL)
		d.Timeout = urlErr.Timeout()
	}

	return d
}

// redactQuery drops query strings, which may carry API keys.
func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	return u.String()
}
