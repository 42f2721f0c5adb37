package invoice

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuibill/internal/model"
)

func samplePeriod() model.Period {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return model.Period{Sessions: []model.Session{
		{
			Start:      start,
			End:        start.Add(8 * time.Hour),
			HourlyRate: 20,
			Tags: []model.Tag{
				{Note: "reviewed PR", Time: start.Add(time.Hour)},
				{Note: "fixed 100% of bugs & more", Time: start.Add(2 * time.Hour)},
			},
		},
		{
			Start:      start.Add(24 * time.Hour),
			End:        start.Add(26*time.Hour + 15*time.Minute),
			HourlyRate: 20,
			Tags:       []model.Tag{},
		},
	}}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"latex":    FormatLaTeX,
		"document": FormatLaTeX,
		"PDF":      FormatPDF,
		"csv":      FormatCSV,
		"tabular":  FormatCSV,
		" table ":  FormatTable,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRenderersRejectEmptyPeriod(t *testing.T) {
	empty := model.Period{Sessions: []model.Session{}}
	if out, err := LaTeX(empty, Header{}); !errors.Is(err, model.ErrEmptyPeriod) || out != "" {
		t.Fatalf("LaTeX = %q, %v", out, err)
	}
	if out, err := CSV(empty); !errors.Is(err, model.ErrEmptyPeriod) || out != "" {
		t.Fatalf("CSV = %q, %v", out, err)
	}
	if out, err := Table(empty); !errors.Is(err, model.ErrEmptyPeriod) || out != "" {
		t.Fatalf("Table = %q, %v", out, err)
	}
}

func TestLaTeX(t *testing.T) {
	out, err := LaTeX(samplePeriod(), Header{Name: "Jo Doe", Client: "ACME_Corp"})
	if err != nil {
		t.Fatalf("LaTeX: %v", err)
	}
	for _, want := range []string{
		`\documentclass`,
		`Date & Began & Completed & Activity & Hours \\`,
		`2024-01-01 & 09:00:00 & 17:00:00 & reviewed PR, fixed 100\% of bugs \& more & 8.0 \\`,
		`2024-01-02 & 09:00:00 & 11:15:00 &  & 2.3 \\`,
		`\textbf{From:} Jo Doe`,
		`\textbf{To:} ACME\_Corp`,
		`\textbf{Period:} 2024-01-01 -- 2024-01-02`,
		`\textbf{Total hours:} 10.3`,
		`\textbf{Total earned:} \$205.00`,
		`\end{document}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("latex missing %q:\n%s", want, out)
		}
	}
}

func TestLaTeXOmitsEmptyHeader(t *testing.T) {
	out, err := LaTeX(samplePeriod(), Header{})
	if err != nil {
		t.Fatalf("LaTeX: %v", err)
	}
	if strings.Contains(out, "From:") || strings.Contains(out, "To:") {
		t.Fatalf("unexpected header lines:\n%s", out)
	}
}

func TestEscapeLaTeX(t *testing.T) {
	got := EscapeLaTeX(`a\b {c} ~^`)
	want := `a\textbackslash{}b \{c\} \textasciitilde{}\textasciicircum{}`
	if got != want {
		t.Fatalf("EscapeLaTeX = %q, want %q", got, want)
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(samplePeriod())
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "date,began,completed,activity,hours,rate,earned" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	want := []string{"2024-01-01", "09:00:00", "17:00:00", "reviewed PR, fixed 100% of bugs & more", "8.0", "20.00", "160.00"}
	for i := range want {
		if records[1][i] != want[i] {
			t.Fatalf("row field %d = %q, want %q", i, records[1][i], want[i])
		}
	}
	if records[2][4] != "2.3" || records[2][6] != "45.00" {
		t.Fatalf("unexpected second row: %v", records[2])
	}
}

func TestTable(t *testing.T) {
	out, err := Table(samplePeriod())
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Date") || !strings.Contains(lines[0], "Activity") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "8.0  $160.00  reviewed PR") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if lines[4] != "Total: 10.3 hours, $205.00" {
		t.Fatalf("unexpected totals: %q", lines[4])
	}
}

func TestCompilePDF(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine")
	}
	dir := t.TempDir()
	engine := filepath.Join(dir, "fake-engine")
	script := "#!/bin/sh\nprintf '%%PDF' > \"${1%.tex}.pdf\"\n"
	if err := os.WriteFile(engine, []byte(script), 0o755); err != nil {
		t.Fatalf("write engine: %v", err)
	}
	texPath := filepath.Join(dir, "invoice.tex")
	if err := os.WriteFile(texPath, []byte(`\documentclass{article}`), 0o644); err != nil {
		t.Fatalf("write tex: %v", err)
	}

	pdfPath, err := CompilePDF(context.Background(), engine, texPath)
	if err != nil {
		t.Fatalf("CompilePDF: %v", err)
	}
	if pdfPath != filepath.Join(dir, "invoice.pdf") {
		t.Fatalf("pdf path = %q", pdfPath)
	}
}

func TestCompilePDFEngineFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine")
	}
	dir := t.TempDir()
	engine := filepath.Join(dir, "broken-engine")
	if err := os.WriteFile(engine, []byte("#!/bin/sh\necho 'no fonts' >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write engine: %v", err)
	}
	texPath := filepath.Join(dir, "invoice.tex")
	if err := os.WriteFile(texPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write tex: %v", err)
	}
	_, err := CompilePDF(context.Background(), engine, texPath)
	if err == nil || !strings.Contains(err.Error(), "no fonts") {
		t.Fatalf("expected engine failure with output, got %v", err)
	}
}
