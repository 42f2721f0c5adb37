package invoice

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
	"github.com/verte-zerg/tuibill/internal/stats"
)

// Table renders the period as an aligned text table followed by totals.
func Table(p model.Period) (string, error) {
	rows, err := p.Rows()
	if err != nil {
		return "", err
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Date.Format(dateLayout),
			r.Began.Format(timeLayout),
			r.Completed.Format(timeLayout),
			fmt.Sprintf("%.1f", r.Hours),
			earnings.FormatMoney(r.Earned),
			r.Activity(),
		})
	}
	lines := stats.FormatTable(
		[]string{"Date", "Began", "Completed", "Hours", "Earned", "Activity"},
		cells,
		map[int]bool{3: true, 4: true},
	)
	lines = append(lines, "", fmt.Sprintf("Total: %.1f hours, %s", p.RoundedHours(), earnings.FormatMoney(p.Earned())))
	return strings.Join(lines, "\n") + "\n", nil
}
