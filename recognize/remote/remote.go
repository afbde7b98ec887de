/*
Package remote is a client for text recognition services speaking JSON over
HTTP.

A request carries the PNG-encoded image and the number of glyphs on it:

	POST <endpoint>
	{"image": "<base64 PNG>", "count": 5, "mode": "batch"}

and the service answers with either a single text or a list of texts:

	{"text": "A"}
	{"texts": ["A", "b", "7", "x", "Q"]}

A non-empty "error" member or a non-2xx status is reported as an error.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/recognize"
)

// Client calls a remote recognition service.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// New creates a client for endpoint with a default timeout.
func New(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, core.Error(core.EMISSING, "no recognition service endpoint configured")
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name implements recognize.Named.
func (c *Client) Name() string { return "remote(" + c.Endpoint + ")" }

type request struct {
	Image string `json:"image"`
	Count int    `json:"count"`
	Mode  string `json:"mode"`
}

type response struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts"`
	Error string   `json:"error,omitempty"`
}

// Recognize sends a single glyph image.
func (c *Client) Recognize(ctx context.Context, img image.Image) (string, error) {
	resp, err := c.call(ctx, img, 1, "single")
	if err != nil {
		return "", err
	}
	if resp.Text == "" && len(resp.Texts) == 1 {
		return resp.Texts[0], nil
	}
	return resp.Text, nil
}

// RecognizeBatch sends a multi-glyph image.
func (c *Client) RecognizeBatch(ctx context.Context, img image.Image, n int) ([]string, error) {
	resp, err := c.call(ctx, img, n, "batch")
	if err != nil {
		return nil, err
	}
	return resp.Texts, nil
}

func (c *Client) call(ctx context.Context, img image.Image, n int, mode string) (*response, error) {
	data, err := recognize.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(request{
		Image: base64.StdEncoding.EncodeToString(data),
		Count: n,
		Mode:  mode,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid endpoint %q", c.Endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	httpResp, err := hc.Do(req)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "recognition service %s not reachable", c.Endpoint)
	}
	defer httpResp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "reading response of %s", c.Endpoint)
	}
	if httpResp.StatusCode/100 != 2 {
		return nil, core.Error(core.ECONNECTION, "recognition service %s: %s", c.Endpoint, httpResp.Status)
	}
	var resp response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "malformed response of %s", c.Endpoint)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("recognition service: %s", resp.Error)
	}
	return &resp, nil
}

var (
	_ recognize.Recognizer      = (*Client)(nil)
	_ recognize.BatchRecognizer = (*Client)(nil)
)
