package invoice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultEngine is the LaTeX engine used when none is configured.
const DefaultEngine = "tectonic"

// CompilePDF runs engine on texPath inside the file's directory and returns
// the path of the produced PDF. engine may carry extra arguments.
func CompilePDF(ctx context.Context, engine, texPath string) (string, error) {
	parts := strings.Fields(engine)
	if len(parts) == 0 {
		parts = []string{DefaultEngine}
	}
	dir := filepath.Dir(texPath)
	base := filepath.Base(texPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], base)...)
	cmd.Dir = dir
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("failed to run %s: %w: %s", parts[0], err, msg)
		}
		return "", fmt.Errorf("failed to run %s: %w", parts[0], err)
	}

	pdfPath := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("engine %s produced no pdf: %w", parts[0], err)
	}
	return pdfPath, nil
}
