package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrEmptyDocument = errors.New("extract: document is empty")
	ErrNotPDF        = errors.New("extract: document does not start with the %PDF- signature")
)

var pdfSignature = []byte("%PDF-")

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

// Validate rejects input the upload path should never hand to the extractor.
// The extractor itself accepts anything.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if !bytes.HasPrefix(data, pdfSignature) {
		return ErrNotPDF
	}
	return nil
}

// Info is what a structural read of the PDF could tell us.
type Info struct {
	PageCount int `json:"page_count"`
}

// Inspect reads the cross reference table with pdfcpu to count pages.
// Many of the files the heuristic extractor tolerates are too damaged for
// pdfcpu, so callers treat an error here as "unknown" rather than fatal.
func Inspect(data []byte) (info Info, err error) {
	if err := Validate(data); err != nil {
		return Info{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("count pages: pdfcpu panicked: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return Info{}, fmt.Errorf("count pages: %w", err)
	}
	return Info{PageCount: pages}, nil
}
