// Package seed builds a demonstration day for development and demos.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/id"
	"github.com/cleared-dev/daybook/internal/model"
)

type row struct {
	txnType     model.TxnType
	amount      int64
	partner     string
	account     model.PaymentAccount
	description string
	clock       string
	paid        bool
	fromUpload  bool
}

var demoRows = []row{
	{model.TxnSale, 15750, "Walk-in Customer", model.AccountCash, "Electronics items - Bill #001", "09:30 AM", true, false},
	{model.TxnSale, 8950, "Rajesh Sharma", model.AccountUPI, "Mobile accessories - Bill #002", "10:15 AM", true, false},
	{model.TxnSale, 23400, "Priya Electronics Ltd", model.AccountBank, "Bulk order laptops - Bill #003", "11:30 AM", true, false},
	{model.TxnSale, 12200, "Amit Kumar", model.AccountCreditCard, "Gaming setup - Bill #004", "02:45 PM", true, false},
	{model.TxnSale, 6800, "Local Business", model.AccountCash, "Office supplies - Bill #005", "04:20 PM", true, false},

	{model.TxnPurchase, 45000, "TechWorld Distributors", model.AccountBank, "Laptop inventory purchase", "09:00 AM", true, true},
	{model.TxnPurchase, 18500, "Mobile Hub Wholesale", model.AccountCash, "Mobile phone accessories", "10:30 AM", true, true},
	{model.TxnPurchase, 12800, "Electronics Mart Ltd", model.AccountCreditCard, "Gaming peripherals stock", "01:15 PM", false, true},
	{model.TxnPurchase, 8200, "Office Solutions Inc", model.AccountUPI, "Cables and adapters", "03:30 PM", true, true},

	{model.TxnExpense, 3200, "Metro Power Company", model.AccountBank, "Monthly electricity bill", "09:45 AM", true, true},
	{model.TxnExpense, 1850, "Rajesh Kumar (Driver)", model.AccountCash, "Delivery salary payment", "11:00 AM", true, true},
	{model.TxnExpense, 2400, "City Internet Services", model.AccountUPI, "Internet & phone bill", "02:00 PM", true, true},
	{model.TxnExpense, 1200, "Cleaning Services Co", model.AccountCash, "Shop cleaning service", "05:00 PM", true, true},
	{model.TxnExpense, 950, "Suresh Sharma (Helper)", model.AccountCash, "Daily wage payment", "06:00 PM", true, true},
}

var demoOpening = []model.DenominationCount{
	{Denomination: 2000, Count: 10},
	{Denomination: 500, Count: 6},
	{Denomination: 200, Count: 5},
	{Denomination: 100, Count: 8},
	{Denomination: 50, Count: 4},
}

const openingClock = "08:30 AM"

// Demo returns an open day holding ₹25,000 in opening cash and fourteen
// entries. Clock times are placed on date in loc.
func Demo(date string, loc *time.Location) daybook.Record {
	opening := make([]model.DenominationCount, len(demoOpening))
	copy(opening, demoOpening)

	status := model.DayStatus{
		Date:  date,
		Phase: model.PhaseOpen,
		Opening: &model.Checkpoint{
			Balance:       model.SumDenominations(opening),
			Denominations: opening,
			Time:          at(date, openingClock, loc),
		},
	}

	txns := make([]model.Transaction, 0, len(demoRows))
	for i, r := range demoRows {
		txns = append(txns, model.Transaction{
			ID:          id.FormatTxnID(date, i+1),
			Type:        r.txnType,
			Amount:      decimal.NewFromInt(r.amount),
			Partner:     r.partner,
			Account:     r.account,
			Description: r.description,
			Time:        at(date, r.clock, loc),
			Paid:        r.paid,
			FromUpload:  r.fromUpload,
		})
	}
	return daybook.Record{Status: status, Transactions: txns}
}

// Seeder returns a daybook.Seeder that fills every new date with Demo.
func Seeder(loc *time.Location) daybook.Seeder {
	return func(date string) daybook.Record { return Demo(date, loc) }
}

func at(date, clock string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
