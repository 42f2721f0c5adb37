package invoice

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
)

const latexSource = `\documentclass[11pt]{article}
\usepackage[margin=2cm]{geometry}
\usepackage{longtable}
\usepackage{booktabs}

\begin{document}

\section*{Invoice}
{{- if .Name}}
\noindent\textbf{From:} {{tex .Name}}\\
{{- end}}
{{- if .Client}}
\noindent\textbf{To:} {{tex .Client}}\\
{{- end}}
\noindent\textbf{Period:} {{.Start}} -- {{.End}}

\begin{longtable}{lllp{7cm}r}
\toprule
Date & Began & Completed & Activity & Hours \\
\midrule
{{- range .Rows}}
{{.Date}} & {{.Began}} & {{.Completed}} & {{tex .Activity}} & {{.Hours}} \\
{{- end}}
\bottomrule
\end{longtable}

\noindent\textbf{Total hours:} {{.Hours}}\\
\noindent\textbf{Total earned:} {{tex .Earned}}

\end{document}
`

var latexTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"tex": EscapeLaTeX,
}).Parse(latexSource))

type latexRow struct {
	Date      string
	Began     string
	Completed string
	Activity  string
	Hours     string
}

type latexDoc struct {
	Header
	Start  string
	End    string
	Rows   []latexRow
	Hours  string
	Earned string
}

// LaTeX renders the period as a standalone LaTeX article.
func LaTeX(p model.Period, h Header) (string, error) {
	rows, err := p.Rows()
	if err != nil {
		return "", err
	}
	doc := latexDoc{
		Header: h,
		Start:  p.Start().Format(dateLayout),
		End:    p.End().Format(dateLayout),
		Rows:   make([]latexRow, 0, len(rows)),
		Hours:  fmt.Sprintf("%.1f", p.RoundedHours()),
		Earned: earnings.FormatMoney(p.Earned()),
	}
	for _, r := range rows {
		doc.Rows = append(doc.Rows, latexRow{
			Date:      r.Date.Format(dateLayout),
			Began:     r.Began.Format(timeLayout),
			Completed: r.Completed.Format(timeLayout),
			Activity:  r.Activity(),
			Hours:     fmt.Sprintf("%.1f", r.Hours),
		})
	}
	var b strings.Builder
	if err := latexTemplate.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("failed to render latex: %w", err)
	}
	return b.String(), nil
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes characters that are special in LaTeX text.
func EscapeLaTeX(s string) string {
	return latexReplacer.Replace(s)
}
