package render

import (
	"archive/zip"
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/avelarbuild/quotient/internal/domain"
)

// Bundle renders the text and csv documents in parallel and zips them.
func Bundle(q *domain.Quotation, d *domain.QuotationData) (*Document, error) {
	if err := ready(q, d); err != nil {
		return nil, err
	}

	var text, csvDoc *Document
	var g errgroup.Group
	g.Go(func() (err error) {
		text, err = Text(q, d)
		return err
	})
	g.Go(func() (err error) {
		csvDoc, err = CSV(q, d)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, doc := range []*Document{text, csvDoc} {
		f, err := zw.Create(doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("creating %s in bundle: %w", doc.Filename, err)
		}
		if _, err := f.Write(doc.Data); err != nil {
			return nil, fmt.Errorf("writing %s in bundle: %w", doc.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing bundle: %w", err)
	}

	return &Document{
		Filename:    fmt.Sprintf("quotation_%s.zip", q.ID),
		ContentType: "application/zip",
		Data:        buf.Bytes(),
	}, nil
}
