// Package httpclient is a resty client whose failures carry the request
// that failed, so the log dispatcher can attach it to the record.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"faultcapture/src/logs"
)

type Client struct {
	cfg  Config
	http *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func New(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(isRetryableResp)
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Response is a successful reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do sends a request. Transport failures and non-2xx replies are returned
// as *RequestError. form is sent as the body of POST, PUT and PATCH
// requests and as the query string otherwise.
func (c *Client) Do(ctx context.Context, method, path string, form url.Values) (*Response, error) {
	method = strings.ToUpper(method)
	req := c.http.R().SetContext(ctx)
	if len(form) > 0 {
		switch method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			req.SetFormDataFromValues(form)
		default:
			req.SetQueryParamsFromValues(form)
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil || !resp.IsSuccess() {
		reqErr := c.requestError(method, path, form, resp, err)
		logger.WithFields(map[string]interface{}{
			"method": method,
			"url":    reqErr.url,
			"status": reqErr.StatusCode,
		}).Debug("[httpclient] request failed")
		return nil, reqErr
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

func (c *Client) requestError(method, path string, form url.Values, resp *resty.Response, err error) *RequestError {
	e := &RequestError{
		Method: method,
		url:    c.cfg.BaseURL + path,
		form:   form,
		header: c.http.Header.Clone(),
		cause:  err,
		config: map[string]any{
			"timeout":    c.cfg.Timeout.String(),
			"retryCount": c.cfg.RetryCount,
		},
	}
	if resp == nil {
		return e
	}
	e.StatusCode = resp.StatusCode()
	e.body = resp.Body()
	if resp.Request != nil && resp.Request.RawRequest != nil {
		raw := resp.Request.RawRequest
		e.url = raw.URL.String()
		e.header = raw.Header.Clone()
	}
	if resp.Request != nil {
		e.config["attempts"] = resp.Request.Attempt
	}
	return e
}

// RequestError is a failed request. It implements logs.HasRequestContext.
type RequestError struct {
	Method     string
	StatusCode int

	url    string
	form   url.Values
	header http.Header
	body   []byte
	config map[string]any
	cause  error
}

func (e *RequestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.url, e.cause)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.url, e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.cause }

// URL is the absolute URL that was requested.
func (e *RequestError) URL() string { return e.url }

func (e *RequestError) RequestContext() logs.RequestContext {
	rc := logs.RequestContext{
		URL:          e.url,
		Method:       e.Method,
		Config:       e.config,
		Header:       e.header,
		Form:         e.form,
		ResponseBody: e.body,
	}
	if u, err := url.Parse(e.url); err == nil {
		rc.Host = u.Host
	}
	return rc
}
