package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/services"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const stamp = "2006-01-02 15:04"

// writeTree prints the recovery tree as an indented outline, one line per
// trashed period row or record.
func writeTree(w io.Writer, t *services.RecoveryTree) {
	if t.Empty() {
		fmt.Fprintln(w, "trash is empty")
		return
	}
	for _, y := range t.Years {
		fmt.Fprintf(w, "%s (%d in trash)\n", y.Year, y.TotalDeleted)
		for _, m := range y.Months {
			fmt.Fprintf(w, "  %s  [%s]\n", m.Month, m.RecoveryKey)
			if md := m.Metadata; md != nil {
				fmt.Fprintf(w, "    period: %s, %s, %s  deleted %s  expires %s\n",
					md.Responsible, md.Municipality, md.Facility,
					md.DeletedAt.Format(stamp), md.ExpiresAt.Format(stamp))
			}
			for _, r := range m.Records {
				fmt.Fprintf(w, "    #%d %s  %s  deleted %s  expires %s\n",
					r.ID, r.ChildName, vaccineLabel(r.PendingVaccine),
					r.DeletedAt.Format(stamp), r.ExpiresAt.Format(stamp))
			}
		}
	}
	fmt.Fprintf(w, "retention %s, generated %s\n", t.Retention, t.GeneratedAt.Format(time.RFC3339))
}

// vaccineLabel shows "-" for records that owe no vaccine.
func vaccineLabel(v string) string {
	if !domain.HasPendingVaccine(v) {
		return "-"
	}
	return v
}
