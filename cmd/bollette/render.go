package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bollette/internal/core"
	"bollette/internal/services"
)

func formatMoney(m core.Money) string {
	return fmt.Sprintf("%.2f", m.Units())
}

func renderBills(w io.Writer, bills []core.Bill) {
	if len(bills) == 0 {
		fmt.Fprintln(w, "No bills")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tAMOUNT\tDUE DAY\tACTIVE\tDESCRIPTION")
	for _, b := range bills {
		active := "yes"
		if !b.Active {
			active = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, b.Name, b.Category, formatMoney(b.Amount), b.DueDay, active, b.Description)
	}
	tw.Flush()
}

func renderPayments(w io.Writer, payments []core.Payment) {
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payments")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBILL\tAMOUNT\tSTATUS\tDUE\tPAID\tNOTES")
	for _, p := range payments {
		paid := "-"
		if !p.PaidDate.IsEmpty() {
			paid = p.PaidDate.Format(dateLayout)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.BillID, formatMoney(p.Amount), p.Status,
			p.DueDate.Format(dateLayout), paid, p.Notes)
	}
	tw.Flush()
}

func renderSummary(w io.Writer, s core.PeriodSummary) {
	fmt.Fprintf(w, "Summary for %s\n", s.Label)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%s\n", formatMoney(s.Total))
	fmt.Fprintf(tw, "Paid\t%s\n", formatMoney(s.Paid))
	fmt.Fprintf(tw, "Pending\t%s\n", formatMoney(s.Pending))
	fmt.Fprintf(tw, "Overdue\t%s\n", formatMoney(s.Overdue))
	tw.Flush()
}

func renderComparison(w io.Writer, report *services.ComparisonReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "METRIC")
	for _, p := range report.Periods {
		fmt.Fprintf(tw, "\t%s", p.Label)
	}
	fmt.Fprintln(tw, "\tCHANGE\tPCT\tTREND")

	for _, m := range report.Metrics {
		fmt.Fprint(tw, m.Metric)
		for _, v := range m.Values {
			fmt.Fprintf(tw, "\t%s", formatMoney(v))
		}
		pct := "n/a"
		if m.PercentageChange != nil {
			pct = fmt.Sprintf("%+.1f%%", *m.PercentageChange)
		}
		fmt.Fprintf(tw, "\t%+.2f\t%s\t%s\n", m.Change.Units(), pct, m.Trend)
	}
	tw.Flush()
}
