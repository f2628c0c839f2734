package cdc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
)

// extractProduct pulls the measurement data member out of an archive ZIP.
// Each ZIP carries exactly one produkt_* file next to metadata PDFs and
// description files.
func extractProduct(zipBytes []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "produkt_") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
	return nil, errors.New("no produkt_ member in archive file")
}
