// Package fetcher retrieves team corpus artifacts from file, HTTP, and
// FTP sources.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// Result is a fetched artifact stream plus the name used to pick a
// decoder (extension of the path).
type Result struct {
	Body io.ReadCloser
	Name string
}

// Fetcher retrieves a source by URL or local path.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*Result, error)
}

// Open dispatches on the source scheme: http(s) and ftp go to their
// fetchers, anything else is treated as a local file path.
func Open(ctx context.Context, source string, httpF *HTTPFetcher, ftpF *FTPFetcher) (*Result, error) {
	u, err := url.Parse(source)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return httpF.Fetch(ctx, source)
		case "ftp":
			return ftpF.Fetch(ctx, source)
		}
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", source)
	}
	return &Result{Body: f, Name: path.Base(source)}, nil
}
