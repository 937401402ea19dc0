//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"farmhub/internal/core"
	ports "farmhub/internal/sheets"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_LedgerAppendAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	credsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	credsFile := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	if credsJSON == "" && credsFile == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := New(ctx, Options{
		SpreadsheetID:   spreadsheetID,
		SheetName:       "Integration Ledger",
		CredentialsJSON: credsJSON,
		CredentialsFile: credsFile,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id := time.Now().UnixNano()
	row := ports.LedgerRow{
		ID:          id,
		Date:        core.DateOf(time.Now()),
		Farm:        "Integration Farm",
		Type:        core.Expense,
		Category:    "Fuel",
		Description: "integration test row",
		Amount:      core.Money{Cents: 1234},
	}

	ref, err := client.Append(ctx, row)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	t.Logf("appended %s", ref)

	removed, err := client.Delete(ctx, id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed row, got %d", removed)
	}

	removed, err = client.Delete(ctx, id)
	if err != nil || removed != 0 {
		t.Errorf("second delete = %d, %v; want 0, nil", removed, err)
	}
}
