// Package gziphttp transparently compresses HTTP responses for clients
// that accept gzip, and decompresses gzip-encoded request bodies.
package gziphttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var writerPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

type compressedResponseWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer
}

func newCompressedResponseWriter(w http.ResponseWriter) *compressedResponseWriter {
	zw := writerPool.Get().(*gzip.Writer)
	zw.Reset(w)
	return &compressedResponseWriter{w: w, zw: zw}
}

// Header returns the headers of the wrapped writer.
func (c *compressedResponseWriter) Header() http.Header {
	return c.w.Header()
}

// WriteHeader marks successful responses as gzip-encoded.
func (c *compressedResponseWriter) WriteHeader(statusCode int) {
	if statusCode < 300 {
		c.w.Header().Set("Content-Encoding", "gzip")
	}
	c.w.WriteHeader(statusCode)
}

// Write compresses into the wrapped writer.
func (c *compressedResponseWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *compressedResponseWriter) close() error {
	if err := c.zw.Close(); err != nil {
		return err
	}
	writerPool.Put(c.zw)
	return nil
}

type decompressedReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

// Read reads decompressed data from the underlying gzip stream.
func (d decompressedReader) Read(p []byte) (int, error) {
	return d.zr.Read(p)
}

// Close closes both the gzip reader and the underlying body.
func (d *decompressedReader) Close() error {
	if err := d.r.Close(); err != nil {
		return err
	}
	return d.zr.Close()
}

// CompressResponse is middleware that gzips the response when the client's
// Accept-Encoding allows it.
func CompressResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(response, request)
			return
		}

		compressed := newCompressedResponseWriter(response)
		defer compressed.close()

		h.ServeHTTP(compressed, request)
	}

	return http.HandlerFunc(middleware)
}

// DecompressRequest is middleware that replaces a gzip-encoded request
// body with a decompressing reader.
func DecompressRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusInternalServerError)
				return
			}
			body := &decompressedReader{r: request.Body, zr: zr}
			request.Body = body
			defer body.Close()
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
