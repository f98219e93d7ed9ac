package input

import (
	"context"
	"errors"
	"io"
	"strings"
)

type lineResult struct {
	line string
	err  error
}

// ReadLine reads a single line from rd, without its line terminator.
//
// rd is read one byte at a time so that consecutive calls on the same reader
// see consecutive lines. A final line without a trailing newline is returned
// as is; io.EOF is only reported when nothing was read. ReadLine returns
// early with ctx.Err() when the context is canceled; the pending read is
// abandoned.
func ReadLine(ctx context.Context, rd io.Reader) (string, error) {
	results := make(chan lineResult, 1)

	go func() {
		var (
			sb  strings.Builder
			buf = make([]byte, 1)
		)
		for {
			n, err := rd.Read(buf)
			if n > 0 {
				if buf[0] == '\n' {
					results <- lineResult{line: strings.TrimSuffix(sb.String(), "\r")}
					return
				}
				sb.WriteByte(buf[0])
			}
			if err != nil {
				if errors.Is(err, io.EOF) && sb.Len() > 0 {
					err = nil
				}
				results <- lineResult{line: strings.TrimSuffix(sb.String(), "\r"), err: err}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-results:
		return res.line, res.err
	}
}
