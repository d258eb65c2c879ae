package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// DocumentsParser reads the classified-document export: one row per
// uploaded bill or receipt.
type DocumentsParser struct{}

// DocumentsHeader is the expected first row.
const DocumentsHeader = "date,type,amount,partner,account,description,paid"

const (
	docNumFields  = 7
	docColDate    = 0
	docColType    = 1
	docColAmount  = 2
	docColPartner = 3
	docColAccount = 4
	docColDesc    = 5
	docColPaid    = 6
)

// Format returns the parser name.
func (p *DocumentsParser) Format() string { return "documents" }

// Parse reads a documents CSV. Amount may be blank; the ledger rejects
// such rows when they are applied.
func (p *DocumentsParser) Parse(r io.Reader) ([]Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = docNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading documents CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var drafts []Draft
	for i, rec := range records[1:] {
		d, err := parseDocumentRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func parseDocumentRow(rec []string) (Draft, error) {
	var date string
	if rec[docColDate] != "" {
		var err error
		date, err = model.ParseDate(rec[docColDate])
		if err != nil {
			return Draft{}, err
		}
	}

	txnType, err := model.ParseTxnType(rec[docColType])
	if err != nil {
		return Draft{}, err
	}
	account, err := model.ParsePaymentAccount(rec[docColAccount])
	if err != nil {
		return Draft{}, err
	}

	var amount decimal.NullDecimal
	if s := strings.TrimSpace(rec[docColAmount]); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Draft{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		amount = decimal.NewNullDecimal(d)
	}

	paid := true
	if s := strings.TrimSpace(rec[docColPaid]); s != "" {
		paid, err = strconv.ParseBool(s)
		if err != nil {
			return Draft{}, fmt.Errorf("parsing paid %q: %w", s, err)
		}
	}

	return Draft{
		Date: date,
		Entry: daybook.NewTransaction{
			Type:        txnType,
			Amount:      amount,
			Partner:     rec[docColPartner],
			Account:     account,
			Description: rec[docColDesc],
			Paid:        paid,
			FromUpload:  true,
		},
	}, nil
}
