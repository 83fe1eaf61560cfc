package noderpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

type httpClient struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *httpClient {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &httpClient{&http.Client{Timeout: requestTimeout}}
}

func (c *httpClient) post(
	ctx context.Context, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range header {
		req.Header.Set(key, value)
	}

	return c.doRequest(req)
}

func (c *httpClient) doRequest(req *http.Request) (int, []byte, error) {
	rs, err := c.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return -1, nil, err
	}
	return rs.StatusCode, bodyBytes, nil
}
