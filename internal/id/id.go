package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTxnID returns a transaction ID like "20250115-001" for a YYYY-MM-DD date.
func FormatTxnID(date string, seq int) string {
	return fmt.Sprintf("%s-%03d", strings.ReplaceAll(date, "-", ""), seq)
}

// ParseTxnID parses "20250115-001" into its ISO date and sequence number.
func ParseTxnID(txnID string) (date string, seq int, err error) {
	prefix, num, ok := strings.Cut(txnID, "-")
	if !ok || len(prefix) != 8 {
		return "", 0, fmt.Errorf("invalid transaction ID format: %q", txnID)
	}

	t, err := time.Parse("20060102", prefix)
	if err != nil {
		return "", 0, fmt.Errorf("invalid date in transaction ID %q: %w", txnID, err)
	}

	seq, err = strconv.Atoi(num)
	if err != nil || seq < 1 {
		return "", 0, fmt.Errorf("invalid sequence in transaction ID %q", txnID)
	}

	return t.Format("2006-01-02"), seq, nil
}

// NextSeq returns the sequence number following the highest one in ids.
// IDs that do not parse are ignored.
func NextSeq(ids []string) int {
	maxSeq := 0
	for _, s := range ids {
		_, seq, err := ParseTxnID(s)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
