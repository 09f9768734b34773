package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/mevansam/jmux/logger"
	"github.com/sirupsen/logrus"
)

// RestApiClient issues requests against a single base URL, used here
// as the upstream transport a jmux.Demultiplexer reads its characters
// from (see FeedToDemultiplexer).
type RestApiClient struct {
	ctx context.Context

	url        string
	httpClient *http.Client
}

type Request struct {
	Path      string
	Headers   NV
	QueryArgs NV
	Body      interface{}

	client *RestApiClient
}

type Response struct {
	StatusCode int
	Headers    NV

	Body  interface{}
	Error interface{}

	RawErrorMessage string
}

type NV map[string]string

func NewRestApiClient(ctx context.Context, url string) *RestApiClient {

	return &RestApiClient{
		ctx: ctx,
		url: url,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

func (c *RestApiClient) WithHttpClient(httpClient *http.Client) *RestApiClient {
	c.httpClient = httpClient
	return c
}

func (c *RestApiClient) NewRequest(request *Request) *Request {
	request.client = c
	return request
}

func (r *Request) DoGet(response *Response) error {
	if r.Body != nil {
		return fmt.Errorf("a body was provided for the get request to path %s", r.Path)
	}
	return r.do("GET", response)
}

func (r *Request) DoPost(response *Response) error {
	return r.do("POST", response)
}

func (r *Request) DoPut(response *Response) error {
	return r.do("PUT", response)
}

func (r *Request) DoDelete(response *Response) error {
	return r.do("DELETE", response)
}

// DoStream issues the request and returns the raw response body
// unread, for a caller that wants to consume it incrementally (for
// example via FeedToDemultiplexer) rather than via the buffered
// DoGet/DoPost/DoPut/DoDelete decoders. The caller is responsible for
// closing the returned body.
func (r *Request) DoStream(method string) (*http.Response, error) {
	return r.client.send(method, r)
}

func (r *Request) do(method string, response *Response) (err error) {

	var (
		body []byte

		httpResponse *http.Response
	)

	if httpResponse, err = r.client.send(method, r); err != nil {
		return err
	}
	defer httpResponse.Body.Close()

	response.StatusCode = httpResponse.StatusCode
	response.Headers = make(map[string]string)
	for n, v := range httpResponse.Header {
		if len(v) > 0 {
			response.Headers[n] = v[0]
		} else {
			response.Headers[n] = ""
		}
	}

	decodeBody := func(r io.Reader, v interface{}, buffer bool) error {
		if buffer || logrus.IsLevelEnabled(logrus.TraceLevel) {
			// retrieve response body to output to trace log
			// before unmarshalling to the response body value
			if body, err = ioutil.ReadAll(r); err != nil {
				return err
			}
			return json.NewDecoder(bytes.NewReader(body)).Decode(v)
		} else {
			return json.NewDecoder(r).Decode(v)
		}
	}

	// handle error responses
	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusBadRequest {
		if err = decodeBody(httpResponse.Body, response.Error, true); err != nil {
			response.RawErrorMessage = string(body)
			logger.DebugMessage("RestApiClient.Request.do(%s): WARNING! Message body parse failed. Response body: %s", method, body)
		}
		err = fmt.Errorf("api error: %d - %s", httpResponse.StatusCode, httpResponse.Status)
		return err
	}

	return decodeBody(httpResponse.Body, response.Body, false)
}

func (c *RestApiClient) send(method string, r *Request) (httpResponse *http.Response, err error) {

	var (
		url strings.Builder

		body   []byte
		reader io.Reader
		writer io.WriteCloser

		err0 error

		httpRequest *http.Request
	)

	logger.TraceMessage("RestApiClient.send(%s): processing request: #% v", method, r)

	// concatonate client url with request
	// path to create the complete url
	url.WriteString(c.url)
	if strings.HasSuffix(c.url, "/") {
		if strings.HasPrefix(r.Path, "/") {
			url.WriteString(r.Path[1:])
		} else {
			url.WriteString(r.Path)
		}
	} else {
		if strings.HasPrefix(r.Path, "/") {
			url.WriteString(r.Path)
		} else {
			url.Write([]byte{'/'})
			url.WriteString(r.Path)
		}
	}

	if r.Body != nil {
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			if body, err = json.Marshal(&r.Body); err != nil {
				return nil, err
			}
			reader = bytes.NewReader(body)
		} else {
			reader, writer = io.Pipe()
			go func() {
				defer writer.Close()
				err0 = json.NewEncoder(writer).Encode(&r.Body)
			}()
		}
	} else {
		reader = nil
	}
	if httpRequest, err = http.NewRequestWithContext(
		c.ctx, method, url.String(), reader,
	); err != nil {
		return nil, err
	}

	httpRequest.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpRequest.Header.Set("Accept", "application/json; charset=utf-8")
	for n, v := range r.Headers {
		httpRequest.Header.Set(n, v)
	}

	if len(r.QueryArgs) > 0 {
		query := httpRequest.URL.Query()
		for n, v := range r.QueryArgs {
			query.Add(n, v)
		}
		httpRequest.URL.RawQuery = query.Encode()
	}
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logger.TraceMessage(
			"RestApiClient.send(%s): sending request:\n  url=%s,\n  headers=%# v,\n  body=%s",
			method,
			httpRequest.URL.String(),
			httpRequest.Header,
			string(body),
		)
	}
	if httpResponse, err = c.httpClient.Do(httpRequest); err != nil {
		return nil, err
	}
	if err0 != nil {
		httpResponse.Body.Close()
		return nil, err0
	}
	return httpResponse, nil
}
