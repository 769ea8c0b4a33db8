package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes settleup with args against the database at db and returns stdout.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--db", db, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, args...)
	if err != nil {
		t.Fatalf("settleup %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestCLI_SettleFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "settleup.db")

	mustRun(t, db, "members", "add", "Alice")
	mustRun(t, db, "members", "add", "Bob")
	mustRun(t, db, "members", "add", "Carol")

	out := mustRun(t, db, "members", "list")
	if !strings.Contains(out, "Ngoc Bao") || !strings.Contains(out, "Carol") {
		t.Errorf("members list missing default or added member:\n%s", out)
	}

	mustRun(t, db, "expenses", "add", "--payer", "Alice", "--participants", "Alice,Bob,Carol", "--amount", "300", "--item", "Hotel")
	mustRun(t, db, "expenses", "add", "--payer", "Bob", "--amount", "60", "--item", "Taxi",
		"--split", "manually", "--share", "Alice=20", "--share", "Bob=40")

	out = mustRun(t, db, "expenses", "list")
	if !strings.Contains(out, "Hotel") || !strings.Contains(out, "Taxi") || !strings.Contains(out, "360") {
		t.Errorf("expenses list:\n%s", out)
	}

	out = mustRun(t, db, "balances")
	if !strings.Contains(out, "Main creditor: Alice") || !strings.Contains(out, "Carol") {
		t.Errorf("balances:\n%s", out)
	}

	out = mustRun(t, db, "settle")
	if !strings.Contains(out, "Settled bill") || !strings.Contains(out, "total 360") {
		t.Errorf("settle:\n%s", out)
	}

	out = mustRun(t, db, "expenses", "list")
	if !strings.Contains(out, "No active expenses.") {
		t.Errorf("expenses should be empty after settle:\n%s", out)
	}

	out = mustRun(t, db, "history", "list")
	if !strings.Contains(out, "1 settlements, 2 expenses, total 360") {
		t.Errorf("history list:\n%s", out)
	}

	out = mustRun(t, db, "report", "--csv")
	if !strings.HasPrefix(out, "Member,Hotel,Taxi,Amount Paid,Net Balance") || !strings.Contains(out, "SUM,300.00,60.00,360.00,0.00") {
		t.Errorf("report csv:\n%s", out)
	}

	if _, err := run(t, db, "settle"); err == nil {
		t.Error("settling with no active expenses should fail")
	}
}

func TestCLI_HistoryShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "settleup.db")

	mustRun(t, db, "expenses", "add", "--payer", "Ngoc Bao", "--participants", "Ngoc Bao,Khac Dat", "--amount", "200000", "--item", "Lunch")
	mustRun(t, db, "settle")

	out := mustRun(t, db, "report", "--output", filepath.Join(t.TempDir(), "report.txt"))
	if out != "" {
		t.Errorf("report with --output should not write to stdout:\n%s", out)
	}

	csvPath := filepath.Join(t.TempDir(), "report.csv")
	mustRun(t, db, "report", "--csv", "-o", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "Khac Dat,100000.00,0.00,-100000.00") {
		t.Errorf("csv report:\n%s", data)
	}

	list := mustRun(t, db, "history", "list")
	var billID string
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && fields[0] == "1" && len(fields[1]) == 36 {
			billID = fields[1]
		}
	}
	if billID == "" {
		t.Fatalf("could not find bill id in:\n%s", list)
	}

	out = mustRun(t, db, "history", "show", billID, "--member", "Khac Dat")
	if !strings.Contains(out, "Khac Dat pays 100,000") {
		t.Errorf("member statement:\n%s", out)
	}

	if _, err := run(t, db, "history", "show", "missing"); err == nil {
		t.Error("expected error for unknown bill")
	}
}

func TestCLI_ExpenseErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "settleup.db")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown payer", []string{"expenses", "add", "--payer", "Nobody", "--amount", "10", "--item", "Taxi"}},
		{"negative amount", []string{"expenses", "add", "--payer", "Ngoc Bao", "--amount", "-5", "--item", "Taxi"}},
		{"bad split", []string{"expenses", "add", "--payer", "Ngoc Bao", "--amount", "10", "--item", "Taxi", "--split", "halves"}},
		{"bad share", []string{"expenses", "add", "--payer", "Ngoc Bao", "--amount", "10", "--item", "Taxi", "--split", "manually", "--share", "Ngoc Bao"}},
		{"mismatched shares", []string{"expenses", "add", "--payer", "Ngoc Bao", "--amount", "10", "--item", "Taxi", "--split", "manually", "--share", "Ngoc Bao=3"}},
		{"duplicate participant", []string{"expenses", "add", "--payer", "Ngoc Bao", "--participants", "Ngoc Bao, Ngoc Bao,Su Uyen", "--amount", "10", "--item", "Taxi"}},
		{"NaN share", []string{"expenses", "add", "--payer", "Ngoc Bao", "--amount", "10", "--item", "Taxi", "--split", "manually", "--share", "Ngoc Bao=NaN", "--share", "Su Uyen=10"}},
		{"delete unknown", []string{"expenses", "delete", "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, db, tt.args...); err == nil {
				t.Errorf("settleup %s should fail", strings.Join(tt.args, " "))
			}
		})
	}

	if out := mustRun(t, db, "expenses", "list"); strings.Contains(out, "Taxi") {
		t.Errorf("rejected expenses were recorded:\n%s", out)
	}
}

func TestCLI_Reset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "settleup.db")

	mustRun(t, db, "members", "add", "Alice")
	mustRun(t, db, "expenses", "add", "--payer", "Alice", "--participants", "Alice,Ngoc Bao", "--amount", "50", "--item", "Coffee")

	if _, err := run(t, db, "reset"); err == nil {
		t.Error("reset without --yes should fail")
	}
	mustRun(t, db, "reset", "--yes")

	out := mustRun(t, db, "members", "list")
	if strings.Contains(out, "Alice") {
		t.Errorf("added member should be gone after reset:\n%s", out)
	}
	out = mustRun(t, db, "expenses", "list")
	if !strings.Contains(out, "No active expenses.") {
		t.Errorf("expenses should be gone after reset:\n%s", out)
	}
}
