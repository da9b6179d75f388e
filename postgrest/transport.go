package postgrest

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/andybalholm/brotli"
	utls "github.com/refraction-networking/utls"
)

// decodingRoundTripper asks for compressed responses and decodes br and gzip bodies
// before they reach the client.
type decodingRoundTripper struct {
	base http.RoundTripper
}

// NewTransport returns the RoundTripper used by Client: TLS connections are dialed with a
// Chrome client hello (ALPN pinned to http/1.1) and compressed bodies are decoded transparently.
func NewTransport() http.RoundTripper {
	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}
	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		tcpConn, err := (&net.Dialer{}).DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		sniHost, _, err := net.SplitHostPort(addr)
		if err != nil {
			sniHost = addr
		}

		uConn := utls.UClient(tcpConn, &utls.Config{ServerName: sniHost}, utls.HelloChrome_Auto)

		if err := uConn.BuildHandshakeState(); err != nil {
			tcpConn.Close()
			return nil, fmt.Errorf("building handshake state : %w", err)
		}

		// HelloChrome_Auto advertises h2; the transport only speaks http/1.1 over this conn.
		foundALPN := false
		for _, ext := range uConn.Extensions {
			if alpnExt, ok := ext.(*utls.ALPNExtension); ok {
				alpnExt.AlpnProtocols = []string{"http/1.1"}
				foundALPN = true
				break
			}
		}
		if !foundALPN {
			tcpConn.Close()
			return nil, errors.New("could not find ALPNExtension")
		}

		if err := uConn.HandshakeContext(ctx); err != nil {
			tcpConn.Close()
			return nil, err
		}
		return uConn, nil
	}

	return &decodingRoundTripper{base: transport}
}

// RoundTrip sets Accept-Encoding when the caller has not and decodes the response body.
func (d *decodingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "br, gzip")
	}

	res, err := d.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := decodeBody(res); err != nil {
		res.Body.Close()
		return nil, err
	}
	return res, nil
}

// decodeBody replaces a br or gzip encoded body with its decoded bytes, removes the
// Content-Encoding header and fixes up Content-Length. Other encodings are left alone.
func decodeBody(res *http.Response) error {
	if res.Body == nil || res.Body == http.NoBody {
		return nil
	}

	var reader io.Reader
	switch res.Header.Get("Content-Encoding") {
	case "br":
		reader = brotli.NewReader(res.Body)
	case "gzip":
		gzipReader, err := gzip.NewReader(res.Body)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	default:
		return nil
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading %s content : %w", res.Header.Get("Content-Encoding"), err)
	}
	res.Body.Close()

	res.Body = io.NopCloser(bytes.NewReader(decoded))
	res.ContentLength = int64(len(decoded))
	res.Header.Set("Content-Length", strconv.Itoa(len(decoded)))
	res.Header.Del("Content-Encoding")
	res.Uncompressed = true
	return nil
}
