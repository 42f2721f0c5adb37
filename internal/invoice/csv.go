package invoice

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuibill/internal/model"
)

var csvHeader = []string{"date", "began", "completed", "activity", "hours", "rate", "earned"}

// CSV renders one row per session under a fixed header.
func CSV(p model.Period) (string, error) {
	rows, err := p.Rows()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date.Format(dateLayout),
			r.Began.Format(timeLayout),
			r.Completed.Format(timeLayout),
			r.Activity(),
			fmt.Sprintf("%.1f", r.Hours),
			fmt.Sprintf("%.2f", r.Rate),
			fmt.Sprintf("%.2f", r.Earned),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return b.String(), nil
}
