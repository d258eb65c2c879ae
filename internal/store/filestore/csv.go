package filestore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,time,type,amount,partner,account,description,paid,from_upload,reverses"

const (
	numFields   = 10
	colID       = 0
	colTime     = 1
	colType     = 2
	colAmount   = 3
	colPartner  = 4
	colAccount  = 5
	colDesc     = 6
	colPaid     = 7
	colUpload   = 8
	colReverses = 9
)

// ReadTransactions reads all rows from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes txns to w, header first.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	if !txn.Time.IsZero() {
		row[colTime] = txn.Time.Format(time.RFC3339)
	}
	row[colType] = string(txn.Type)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colPartner] = txn.Partner
	row[colAccount] = string(txn.Account)
	row[colDesc] = txn.Description
	row[colPaid] = strconv.FormatBool(txn.Paid)
	row[colUpload] = strconv.FormatBool(txn.FromUpload)
	row[colReverses] = txn.Reverses
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var ts time.Time
	if record[colTime] != "" {
		var err error
		ts, err = time.Parse(time.RFC3339, record[colTime])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing time %q: %w", record[colTime], err)
		}
	}

	txnType, err := model.ParseTxnType(record[colType])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	account, err := model.ParsePaymentAccount(record[colAccount])
	if err != nil {
		return model.Transaction{}, err
	}

	// An empty paid column is a paid entry.
	paid := true
	if record[colPaid] != "" {
		paid, err = strconv.ParseBool(record[colPaid])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing paid %q: %w", record[colPaid], err)
		}
	}

	var fromUpload bool
	if record[colUpload] != "" {
		fromUpload, err = strconv.ParseBool(record[colUpload])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing from_upload %q: %w", record[colUpload], err)
		}
	}

	return model.Transaction{
		ID:          record[colID],
		Type:        txnType,
		Amount:      amount,
		Partner:     record[colPartner],
		Account:     account,
		Description: record[colDesc],
		Time:        ts,
		Paid:        paid,
		FromUpload:  fromUpload,
		Reverses:    record[colReverses],
	}, nil
}
