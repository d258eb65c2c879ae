package cashcount

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/model"
)

// ErrUnknownDenomination is returned for a face value outside the fixed set.
var ErrUnknownDenomination = errors.New("unknown denomination")

// Denominations is the fixed set of face values in display order.
var Denominations = []int64{2000, 500, 200, 100, 50, 20, 10, 5, 2, 1}

// noteThreshold is the smallest face value counted as a note.
const noteThreshold = 10

// Tier groups face values for display.
type Tier string

const (
	TierNotes Tier = "notes"
	TierCoins Tier = "coins"
)

// TierOf returns the display tier of a face value. 10 is a note.
func TierOf(denomination int64) Tier {
	if denomination >= noteThreshold {
		return TierNotes
	}
	return TierCoins
}

// Counter holds a physical cash count over the fixed denomination set.
// Row totals are derived on read.
type Counter struct {
	counts map[int64]int
}

// New returns a counter with every denomination at zero.
func New() *Counter {
	counts := make(map[int64]int, len(Denominations))
	for _, d := range Denominations {
		counts[d] = 0
	}
	return &Counter{counts: counts}
}

// FromEntries returns a counter pre-filled from stored rows.
func FromEntries(entries []model.DenominationCount) (*Counter, error) {
	c := New()
	for _, e := range entries {
		if err := c.SetCount(e.Denomination, e.Count); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetCount sets the quantity for one face value. Negative counts clamp to zero.
func (c *Counter) SetCount(denomination int64, count int) error {
	if _, ok := c.counts[denomination]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDenomination, denomination)
	}
	if count < 0 {
		count = 0
	}
	c.counts[denomination] = count
	return nil
}

// SetCountInput sets a count from raw user input. Anything that is not a
// non-negative integer is taken as zero.
func (c *Counter) SetCountInput(denomination int64, raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = 0
	}
	return c.SetCount(denomination, n)
}

// Increment adds one to a face value's count.
func (c *Counter) Increment(denomination int64) error {
	return c.SetCount(denomination, c.counts[denomination]+1)
}

// Decrement removes one from a face value's count, stopping at zero.
func (c *Counter) Decrement(denomination int64) error {
	return c.SetCount(denomination, c.counts[denomination]-1)
}

// Count returns the quantity recorded for a face value.
func (c *Counter) Count(denomination int64) int {
	return c.counts[denomination]
}

// Reset zeroes every row.
func (c *Counter) Reset() {
	for d := range c.counts {
		c.counts[d] = 0
	}
}

// Rows returns every denomination row in display order.
func (c *Counter) Rows() []model.DenominationCount {
	rows := make([]model.DenominationCount, 0, len(Denominations))
	for _, d := range Denominations {
		rows = append(rows, model.DenominationCount{Denomination: d, Count: c.counts[d]})
	}
	return rows
}

// Notes returns the rows of the notes tier.
func (c *Counter) Notes() []model.DenominationCount {
	return c.tier(TierNotes)
}

// Coins returns the rows of the coins tier.
func (c *Counter) Coins() []model.DenominationCount {
	return c.tier(TierCoins)
}

func (c *Counter) tier(t Tier) []model.DenominationCount {
	var rows []model.DenominationCount
	for _, r := range c.Rows() {
		if TierOf(r.Denomination) == t {
			rows = append(rows, r)
		}
	}
	return rows
}

// Total returns the value of the whole count.
func (c *Counter) Total() decimal.Decimal {
	return model.SumDenominations(c.Rows())
}

// NonZeroEntries returns the rows with a positive count, in display order.
// Only these rows are ever persisted.
func (c *Counter) NonZeroEntries() []model.DenominationCount {
	var rows []model.DenominationCount
	for _, r := range c.Rows() {
		if r.Count > 0 {
			rows = append(rows, r)
		}
	}
	return rows
}

// ParseCounts builds a counter from CLI tokens, applied in order:
//
//	500=2   set the count of 500 to 2
//	500+    add one 500
//	500-    take one 500 away, stopping at zero
//	clear   zero every row counted so far
func ParseCounts(pairs []string) (*Counter, error) {
	c := New()
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "clear" {
			c.Reset()
			continue
		}
		if err := c.apply(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Counter) apply(token string) error {
	if denomStr, countStr, ok := strings.Cut(token, "="); ok {
		denom, err := parseDenomination(token, denomStr)
		if err != nil {
			return err
		}
		return c.SetCountInput(denom, countStr)
	}
	if denomStr, ok := strings.CutSuffix(token, "+"); ok {
		denom, err := parseDenomination(token, denomStr)
		if err != nil {
			return err
		}
		return c.Increment(denom)
	}
	if denomStr, ok := strings.CutSuffix(token, "-"); ok {
		denom, err := parseDenomination(token, denomStr)
		if err != nil {
			return err
		}
		return c.Decrement(denom)
	}
	return fmt.Errorf("invalid count %q: expected denomination=count, denomination+ or denomination-", token)
}

func parseDenomination(token, s string) (int64, error) {
	denom, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid denomination in %q: %w", token, err)
	}
	return denom, nil
}
