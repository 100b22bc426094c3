package ledger

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
)

// OpenSheet opens a price sheet file for import, transparently decompressing
// sheets with a .gz suffix.
func OpenSheet(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sheet %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "open gzip sheet %s", path)
	}
	return &gzipSheet{gz: gz, f: f}, nil
}

type gzipSheet struct {
	gz *pgzip.Reader
	f  *os.File
}

func (s *gzipSheet) Read(p []byte) (int, error) {
	return s.gz.Read(p)
}

func (s *gzipSheet) Close() error {
	err := s.gz.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
