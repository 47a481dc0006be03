package xio

import (
	"io"
)

// NewResponseWriteCloser wraps w so it can be handed to writers that insist
// on an io.WriteCloser. Close only closes w if it is an io.Closer itself, so
// an http.ResponseWriter is left alone.
func NewResponseWriteCloser(w io.Writer) io.WriteCloser {
	return &responseWriteCloser{
		Writer: w,
	}
}

type responseWriteCloser struct {
	io.Writer
}

func (rwc *responseWriteCloser) Close() error {
	if closer, ok := rwc.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
