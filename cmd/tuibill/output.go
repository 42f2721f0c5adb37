package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuibill/internal/config"
	"github.com/verte-zerg/tuibill/internal/invoice"
	"github.com/verte-zerg/tuibill/internal/model"
)

const defaultPDFPath = "invoice.pdf"

var (
	outputPeriod int
	outputPath   string
	outputName   string
	outputClient string
	outputEngine string
)

func newOutputCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "output FORMAT",
		Short: "Render a billing period (latex, pdf, csv or table)",
		Args:  cobra.ExactArgs(1),
		RunE:  runOutputCmd,
	}
	cmd.Flags().IntVar(&outputPeriod, "period", 0, "period number, 1 = oldest (default: current)")
	cmd.Flags().StringVar(&outputPath, "out", "", "output file (default: stdout, invoice.pdf for pdf)")
	cmd.Flags().StringVar(&outputName, "name", "", "biller name printed on the invoice")
	cmd.Flags().StringVar(&outputClient, "client", "", "client name printed on the invoice")
	cmd.Flags().StringVar(&outputEngine, "engine", invoice.DefaultEngine, "LaTeX engine used for pdf")
	return cmd
}

func runOutputCmd(cmd *cobra.Command, args []string) error {
	format, err := invoice.ParseFormat(args[0])
	if err != nil {
		return err
	}
	if outputPeriod < 0 {
		return fmt.Errorf("--period must be >= 0")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyInvoiceConfig(cmd, fileCfg)

	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	log, err := st.Load(commandContext(cmd))
	if err != nil {
		return err
	}
	period, err := log.Period(outputPeriod)
	if err != nil {
		return err
	}

	if format == invoice.FormatPDF {
		return writePDF(cmd, *period)
	}
	doc, err := renderDocument(format, *period)
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	if err := writeFileAtomic(config.ExpandHome(outputPath), []byte(doc)); err != nil {
		return err
	}
	logErrf("Wrote %s\n", outputPath)
	return nil
}

func applyInvoiceConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "name", &outputName, fileCfg.Invoice.Name)
	applyStringConfig(cmd, "client", &outputClient, fileCfg.Invoice.Client)
	applyStringConfig(cmd, "engine", &outputEngine, fileCfg.Invoice.LatexEngine)
}

func renderDocument(format invoice.Format, period model.Period) (string, error) {
	header := invoice.Header{Name: outputName, Client: outputClient}
	switch format {
	case invoice.FormatLaTeX, invoice.FormatPDF:
		return invoice.LaTeX(period, header)
	case invoice.FormatCSV:
		return invoice.CSV(period)
	case invoice.FormatTable:
		return invoice.Table(period)
	default:
		return "", fmt.Errorf("%w: %q", invoice.ErrUnknownFormat, format)
	}
}

func writePDF(cmd *cobra.Command, period model.Period) error {
	doc, err := renderDocument(invoice.FormatPDF, period)
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "tuibill-*")
	if err != nil {
		return fmt.Errorf("failed to create build dir: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(dir); rerr != nil {
			logErrf("failed to remove %s: %v\n", dir, rerr)
		}
	}()

	texPath := filepath.Join(dir, "invoice.tex")
	if err := os.WriteFile(texPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write latex: %w", err)
	}
	pdfPath, err := invoice.CompilePDF(commandContext(cmd), outputEngine, texPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to read pdf: %w", err)
	}

	dest := outputPath
	if dest == "" {
		dest = defaultPDFPath
	}
	if err := writeFileAtomic(config.ExpandHome(dest), data); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dest)
	return err
}
