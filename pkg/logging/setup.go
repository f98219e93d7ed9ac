package logging

import (
	"io"
	"log/slog"
)

// Setup installs the process-wide slog logger.
//
// Without debug, logs are discarded. With debug, text logs at debug level go to
// a RotatingFile at path; if that file cannot be opened the logs go to fallback
// and the open error is returned. The returned closer is nil when no file was
// opened.
func Setup(debug bool, path string, fallback io.Writer) (io.Closer, error) {
	if !debug {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil, nil
	}

	file, err := NewRotatingFile(path)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(fallback, &slog.HandlerOptions{Level: slog.LevelDebug})))
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return file, nil
}
