package httpclient

import "io"

// drain reads the body to EOF and closes it so the connection can be reused.
// It returns the number of bytes read.
func drain(body io.ReadCloser) int64 {
	if body == nil {
		return 0
	}
	n, _ := io.Copy(io.Discard, body)
	_ = body.Close()
	return n
}
