package filestore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/daybook/internal/model"
)

// statusFile is the on-disk shape of day.yaml. Row totals are not stored;
// they are recomputed from denomination and count.
type statusFile struct {
	Date    string          `yaml:"date"`
	Phase   string          `yaml:"phase"`
	Opening *checkpointFile `yaml:"opening,omitempty"`
	Closing *checkpointFile `yaml:"closing,omitempty"`
}

type checkpointFile struct {
	Balance       string      `yaml:"balance"`
	Time          time.Time   `yaml:"time"`
	Denominations []countFile `yaml:"denominations,omitempty"`
}

type countFile struct {
	Denomination int64 `yaml:"denomination"`
	Count        int   `yaml:"count"`
}

// MarshalStatus encodes a status as day.yaml content.
func MarshalStatus(status model.DayStatus) ([]byte, error) {
	doc := statusFile{
		Date:    status.Date,
		Phase:   string(status.Phase),
		Opening: toCheckpointFile(status.Opening),
		Closing: toCheckpointFile(status.Closing),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling day status: %w", err)
	}
	return data, nil
}

// UnmarshalStatus decodes day.yaml content.
func UnmarshalStatus(data []byte) (model.DayStatus, error) {
	var doc statusFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.DayStatus{}, fmt.Errorf("parsing day status: %w", err)
	}

	opening, err := fromCheckpointFile(doc.Opening)
	if err != nil {
		return model.DayStatus{}, fmt.Errorf("opening: %w", err)
	}
	closing, err := fromCheckpointFile(doc.Closing)
	if err != nil {
		return model.DayStatus{}, fmt.Errorf("closing: %w", err)
	}

	status := model.DayStatus{
		Date:    doc.Date,
		Phase:   model.Phase(doc.Phase),
		Opening: opening,
		Closing: closing,
	}
	if err := status.Validate(); err != nil {
		return model.DayStatus{}, err
	}
	return status, nil
}

func toCheckpointFile(cp *model.Checkpoint) *checkpointFile {
	if cp == nil {
		return nil
	}
	out := &checkpointFile{Balance: cp.Balance.StringFixed(2), Time: cp.Time}
	for _, d := range cp.Denominations {
		if d.Count > 0 {
			out.Denominations = append(out.Denominations, countFile{Denomination: d.Denomination, Count: d.Count})
		}
	}
	return out
}

func fromCheckpointFile(f *checkpointFile) (*model.Checkpoint, error) {
	if f == nil {
		return nil, nil
	}
	balance, err := decimal.NewFromString(f.Balance)
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", f.Balance, err)
	}
	cp := &model.Checkpoint{Balance: balance, Time: f.Time}
	for _, c := range f.Denominations {
		cp.Denominations = append(cp.Denominations, model.DenominationCount{Denomination: c.Denomination, Count: c.Count})
	}
	return cp, nil
}
