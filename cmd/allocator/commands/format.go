package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/allocator/internal/audit"
	"github.com/wonny/allocator/internal/contracts"
	"github.com/wonny/allocator/internal/solver"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// PrintHeader prints a formatted section header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleLine)
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, doubleLine)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(w, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// formatAmount renders a currency amount with thousands separators: 12,345.50
func formatAmount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

// formatPct renders a fraction as a percentage: 0.125 → 12.50%
func formatPct(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// ═══════════════════════════════════════════════════════════
// Report Rendering
// ═══════════════════════════════════════════════════════════

func printReport(w io.Writer, r *audit.Report) {
	PrintHeader(w, "Portfolio Allocation")
	PrintKeyValue(w, "Run ID", r.RunID, 16)
	PrintKeyValue(w, "Score", r.Score.String(), 16)
	if r.Feasible {
		PrintKeyValue(w, "Feasible", "yes", 16)
	} else {
		PrintKeyValue(w, "Feasible", "NO", 16)
	}
	PrintKeyValue(w, "Stopped by", r.Search.Reason, 16)
	PrintKeyValue(w, "Steps", fmt.Sprintf("%d (%d accepted)", r.Search.Steps, r.Search.AcceptedMoves), 16)
	PrintKeyValue(w, "Elapsed", fmt.Sprintf("%dms", r.Search.ElapsedMs), 16)
	if r.Profile != nil {
		PrintKeyValue(w, "Profile", fmt.Sprintf("%s@%s (%s)", r.Profile.ProfileID, r.Profile.Version, r.Profile.ProfileHash[:12]), 16)
	}

	a := r.Allocation
	PrintSeparator(w)
	PrintKeyValue(w, "Allocated", fmt.Sprintf("%d / %d", a.AllocatedCount, a.InvestmentCount), 16)
	PrintKeyValue(w, "Invested", fmt.Sprintf("%s of %s (%s)", formatAmount(a.TotalInvested), formatAmount(a.CashAvailable), formatPct(a.CashUsedPct)), 16)
	PrintKeyValue(w, "Average risk", fmt.Sprintf("%s (max %s)", formatPct(a.AverageRisk), formatPct(a.MaxAverageRisk)), 16)
	PrintKeyValue(w, "Expected return", fmt.Sprintf("%s (%s)", formatAmount(a.ExpectedReturn), formatPct(a.ReturnPct)), 16)

	if len(r.Sectors) > 0 {
		fmt.Fprintln(w)
		widths := []int{14, 14, 8, 10, 8}
		PrintTableHeader(w, []string{"Sector", "Invested", "Weight", "Cap used", "Assets"}, widths)
		for _, s := range r.Sectors {
			capUsed := formatPct(s.CapUsage)
			if s.OverCap {
				capUsed += " !"
			}
			PrintTableRow(w, []string{s.Sector, formatAmount(s.Invested), formatPct(s.Weight), capUsed, fmt.Sprint(s.Holdings)}, widths)
		}
	}

	if len(r.Holdings) > 0 {
		fmt.Fprintln(w)
		widths := []int{8, 20, 12, 12, 8, 8}
		PrintTableHeader(w, []string{"ID", "Name", "Sector", "Amount", "Return", "Risk"}, widths)
		for _, h := range r.Holdings {
			PrintTableRow(w, []string{h.ID, h.Name, h.Sector, formatAmount(h.Amount), formatPct(h.ExpectedReturn), formatPct(h.Risk)}, widths)
		}
	}

	if r.Workers != nil {
		ws := r.Workers
		fmt.Fprintln(w)
		PrintKeyValue(w, "Workers", fmt.Sprintf("%d (%d feasible)", ws.Count, ws.FeasibleCount), 16)
		PrintKeyValue(w, "Return mean", fmt.Sprintf("%s ± %s", formatAmount(ws.MeanSoft), formatAmount(ws.StdDevSoft)), 16)
		PrintKeyValue(w, "Return range", fmt.Sprintf("%s ~ %s", formatAmount(ws.WorstSoft), formatAmount(ws.BestSoft)), 16)
	}

	printConstraints(w, r.Constraints)
	PrintDoubleSeparator(w)
}

func printExplain(w io.Writer, resp *contracts.ExplainResponse) {
	PrintHeader(w, "Score Explanation")
	PrintKeyValue(w, "Score", resp.Score.String(), 16)
	PrintKeyValue(w, "Allocated", fmt.Sprint(resp.Summary.AllocatedCount), 16)
	PrintKeyValue(w, "Invested", formatAmount(resp.Summary.TotalInvested), 16)
	PrintKeyValue(w, "Average risk", formatPct(resp.Summary.AverageRisk), 16)
	printConstraints(w, resp.Constraints)
	if !resp.Feasible {
		PrintWarning(w, "allocation breaks at least one hard limit")
	}
	PrintDoubleSeparator(w)
}

func printConstraints(w io.Writer, matches []solver.ConstraintMatch) {
	fmt.Fprintln(w)
	if len(matches) == 0 {
		PrintKeyValue(w, "Constraints", "no contributions", 16)
		return
	}
	widths := []int{28, 12, 20}
	PrintTableHeader(w, []string{"Constraint", "Sector", "Score"}, widths)
	for _, m := range matches {
		PrintTableRow(w, []string{m.Constraint, m.Sector, m.Score.String()}, widths)
	}
}
