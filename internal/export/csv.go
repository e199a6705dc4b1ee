// Package export writes invitation batches to CSV so owners can hand the
// tokens to print shops or spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fidd-app/fidd/pkg/domain"
)

var header = []string{"index", "token", "points", "expiry"}

var slugRE = regexp.MustCompile(`[^a-z0-9]+`)

// slug flattens a campaign name into a filename-safe fragment.
func slug(name string) string {
	s := slugRE.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "campaign"
	}
	return s
}

// FileName returns the export name for a batch generated on date, e.g.
// invitations-cafe-gratis-2026-08-28.csv.
func FileName(campaignName string, date time.Time) string {
	return fmt.Sprintf("invitations-%s-%s.csv", slug(campaignName), date.Format("2006-01-02"))
}

// WriteCSV writes the batch to w, one row per invitation.
func WriteCSV(w io.Writer, batch *domain.InvitationBatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, inv := range batch.Invitations {
		row := []string{
			strconv.Itoa(i + 1),
			inv.Token,
			strconv.Itoa(inv.PointsValue),
			inv.ExpiresAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the batch to dir (or the working directory when dir is
// empty) and returns the full path written.
func WriteFile(dir, campaignName string, batch *domain.InvitationBatch) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(campaignName, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, batch); err != nil {
		f.Close() //nolint:errcheck // best-effort close on error path
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
