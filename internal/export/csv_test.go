package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fidd-app/fidd/pkg/domain"
)

func sampleBatch() *domain.InvitationBatch {
	expiry := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return &domain.InvitationBatch{
		CampaignID:          3,
		TotalGenerated:      2,
		PointsPerInvitation: 5,
		ExpirationMinutes:   60,
		Invitations: []domain.Invitation{
			{Token: "AAAA-1111", PointsValue: 5, ExpiresAt: expiry},
			{Token: "BBBB-2222", PointsValue: 5, ExpiresAt: expiry},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleBatch()); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	wantHeader := []string{"index", "token", "points", "expiry"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("indexes = %q, %q; want 1-based", rows[1][0], rows[2][0])
	}
	if rows[1][1] != "AAAA-1111" || rows[1][2] != "5" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[1][3] != "2026-08-28T12:00:00Z" {
		t.Errorf("expiry = %q, want RFC3339", rows[1][3])
	}
}

func TestFileName(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		want string
	}{
		{"Café Grátis", "invitations-caf-gr-tis-2026-08-28.csv"},
		{"Summer Promo 2026", "invitations-summer-promo-2026-2026-08-28.csv"},
		{"***", "invitations-campaign-2026-08-28.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name, date); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, "Promo", sampleBatch())
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("path %q not under %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(data), "index,token,points,expiry\n") {
		t.Errorf("unexpected file prefix: %q", string(data[:40]))
	}
}
