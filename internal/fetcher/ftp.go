package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
)

// newBytesReader wraps a byte slice for Result bodies.
func newBytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

// FTPFetcher downloads artifacts from FTP servers (anonymous login by
// default). Some league data drops still arrive this way.
type FTPFetcher struct {
	timeout time.Duration
}

// NewFTP creates an FTPFetcher.
func NewFTP() *FTPFetcher {
	return &FTPFetcher{timeout: 60 * time.Second}
}

// Fetch implements Fetcher for ftp:// URLs.
func (f *FTPFetcher) Fetch(ctx context.Context, source string) (*Result, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse ftp url %s", source)
	}

	host := u.Host
	if u.Port() == "" {
		host += ":21"
	}

	conn, err := ftp.Dial(host, ftp.DialWithContext(ctx), ftp.DialWithTimeout(f.timeout))
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: ftp dial %s", host)
	}
	defer conn.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return nil, eris.Wrapf(err, "fetcher: ftp login %s", host)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: ftp retr %s", u.Path)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: ftp read %s", u.Path)
	}

	return &Result{
		Body: io.NopCloser(bytes.NewReader(data)),
		Name: path.Base(u.Path),
	}, nil
}
