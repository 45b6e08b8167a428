package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/unlockgrowth/intake/internal/evidence"
)

var ErrUnknownSource = errors.New("unknown export source")

// Source names where an export came from.
type Source string

const (
	SourceBank Source = "bank"
	SourcePOS  Source = "pos"
)

type Importer interface {
	Parse(r io.Reader) ([]evidence.CashFlowEntry, error)
	ParseXLSX(data []byte) ([]evidence.CashFlowEntry, error)
}

type Service struct {
	bankImporter Importer
	posImporter  Importer
}

func NewService() *Service {
	return &Service{
		bankImporter: NewParser(bankProfiles),
		posImporter:  NewParser(posProfiles),
	}
}

// Import parses a delimited text export.
func (s *Service) Import(source Source, r io.Reader) ([]evidence.CashFlowEntry, error) {
	importer, err := s.importerFor(source)
	if err != nil {
		return nil, err
	}

	return importer.Parse(r)
}

// ImportFile picks the format from the file name: .xlsx workbooks are read
// as spreadsheets, anything else as delimited text.
func (s *Service) ImportFile(source Source, filename string, r io.Reader) ([]evidence.CashFlowEntry, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return s.Import(source, r)
	}

	importer, err := s.importerFor(source)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	return importer.ParseXLSX(data)
}

func (s *Service) importerFor(source Source) (Importer, error) {
	switch source {
	case SourceBank, "":
		return s.bankImporter, nil
	case SourcePOS:
		return s.posImporter, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
}
