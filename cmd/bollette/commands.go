package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bollette/internal/core"
)

const dateLayout = "2006-01-02"

func (a *app) addBill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-bill", flag.ExitOnError)
	name := fs.String("name", "", "bill name (required)")
	category := fs.String("category", "OTHER", "RENT, ELECTRICITY, WATER, GAS, INTERNET, PHONE or OTHER")
	amount := fs.String("amount", "", "expected amount, e.g. 45.90 (required)")
	dueDay := fs.Int("due-day", 1, "day of the month the bill is due (1-31)")
	description := fs.String("description", "", "optional description")
	fs.Parse(args)

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}

	bill, err := a.bills.Create(ctx, core.Bill{
		Name:        *name,
		Category:    core.Category(*category),
		Amount:      core.Money{Cents: cents},
		DueDay:      *dueDay,
		Description: *description,
		Active:      true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created bill %d: %s (%s, %s due on day %d)\n",
		bill.ID, bill.Name, bill.Category, formatMoney(bill.Amount), bill.DueDay)
	return nil
}

func (a *app) listBills(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-bills", flag.ExitOnError)
	activeOnly := fs.Bool("active", false, "only active bills")
	fs.Parse(args)

	bills, err := a.bills.List(ctx, *activeOnly)
	if err != nil {
		return err
	}
	renderBills(os.Stdout, bills)
	return nil
}

func (a *app) updateBill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-bill", flag.ExitOnError)
	id := fs.Int64("id", 0, "bill id (required)")
	name := fs.String("name", "", "new name")
	category := fs.String("category", "", "new category")
	amount := fs.String("amount", "", "new amount, e.g. 45.90")
	dueDay := fs.Int("due-day", 0, "new due day (1-31)")
	description := fs.String("description", "", "new description")
	active := fs.Bool("active", true, "whether the bill generates payments")
	fs.Parse(args)

	bill, err := a.bills.Get(ctx, *id)
	if err != nil {
		return err
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			bill.Name = *name
		case "category":
			bill.Category = core.Category(*category)
		case "amount":
			cents, err := core.ParseDecimalToCents(*amount)
			if err != nil {
				parseErr = fmt.Errorf("amount %q: %w", *amount, err)
				return
			}
			bill.Amount = core.Money{Cents: cents}
		case "due-day":
			bill.DueDay = *dueDay
		case "description":
			bill.Description = *description
		case "active":
			bill.Active = *active
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if err := a.bills.Update(ctx, bill); err != nil {
		return err
	}
	fmt.Printf("Updated bill %d\n", bill.ID)
	return nil
}

func (a *app) deactivateBill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deactivate-bill", flag.ExitOnError)
	id := fs.Int64("id", 0, "bill id (required)")
	fs.Parse(args)

	if err := a.bills.Deactivate(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deactivated bill %d; existing payments are kept\n", *id)
	return nil
}

func (a *app) deleteBill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-bill", flag.ExitOnError)
	id := fs.Int64("id", 0, "bill id (required)")
	fs.Parse(args)

	if err := a.bills.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted bill %d and its payments\n", *id)
	return nil
}

func (a *app) addPayment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-payment", flag.ExitOnError)
	billID := fs.Int64("bill", 0, "bill id (required)")
	amount := fs.String("amount", "", "amount, e.g. 45.90 (required)")
	due := fs.String("due", "", "due date YYYY-MM-DD (required)")
	notes := fs.String("notes", "", "optional notes")
	fs.Parse(args)

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	dueDate, err := parseDate(*due)
	if err != nil {
		return err
	}

	payment, err := a.payments.Create(ctx, core.Payment{
		BillID:  *billID,
		Amount:  core.Money{Cents: cents},
		DueDate: dueDate,
		Notes:   *notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created payment %d for bill %d (%s due %s)\n",
		payment.ID, payment.BillID, formatMoney(payment.Amount), payment.DueDate.Format(dateLayout))
	return nil
}

func (a *app) listPayments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-payments", flag.ExitOnError)
	billID := fs.Int64("bill", 0, "list a bill's full payment history")
	year := fs.Int("year", 0, "list a month's payments (defaults to the current month)")
	month := fs.Int("month", 0, "")
	fs.Parse(args)

	var (
		payments []core.Payment
		err      error
	)
	if *billID != 0 {
		payments, err = a.payments.ListForBill(ctx, *billID)
	} else {
		y, m := defaultPeriod(*year, *month)
		payments, err = a.payments.ListForPeriod(ctx, y, m)
	}
	if err != nil {
		return err
	}
	renderPayments(os.Stdout, payments)
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	id := fs.Int64("id", 0, "payment id (required)")
	date := fs.String("date", "", "paid date YYYY-MM-DD (defaults to today)")
	fs.Parse(args)

	paidDate := today()
	if *date != "" {
		var err error
		paidDate, err = parseDate(*date)
		if err != nil {
			return err
		}
	}

	if err := a.payments.MarkPaid(ctx, *id, paidDate); err != nil {
		return err
	}
	fmt.Printf("Payment %d marked paid on %s\n", *id, paidDate.Format(dateLayout))
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	year := fs.Int("year", 0, "target year (defaults to the current month)")
	month := fs.Int("month", 0, "target month 1-12")
	fs.Parse(args)

	y, m := defaultPeriod(*year, *month)
	created, err := a.generator.Generate(ctx, y, m)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		fmt.Printf("No new payments for %s; all active bills already have one\n", core.PeriodLabel(y, m))
		return nil
	}
	fmt.Printf("Generated %d payments for %s\n", len(created), core.PeriodLabel(y, m))
	renderPayments(os.Stdout, created)
	return nil
}

func (a *app) sweep(ctx context.Context) error {
	count, err := a.sweeper.Sweep(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Printf("Marked %d payments overdue\n", count)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	year := fs.Int("year", 0, "target year (defaults to the current month)")
	month := fs.Int("month", 0, "target month 1-12")
	fs.Parse(args)

	// Overdue classification happens at sweep time, so refresh it
	// before reading the buckets.
	if _, err := a.sweeper.Sweep(ctx, time.Now().UTC()); err != nil {
		return err
	}

	y, m := defaultPeriod(*year, *month)
	summary, err := a.summaries.Summarize(ctx, y, m)
	if err != nil {
		return err
	}
	renderSummary(os.Stdout, summary)
	return nil
}

func (a *app) compare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	year := fs.Int("year", 0, "target year (defaults to the current month)")
	month := fs.Int("month", 0, "target month 1-12")
	fs.Parse(args)

	if _, err := a.sweeper.Sweep(ctx, time.Now().UTC()); err != nil {
		return err
	}

	y, m := defaultPeriod(*year, *month)
	report, err := a.comparisons.Compare(ctx, y, m)
	if err != nil {
		return err
	}
	renderComparison(os.Stdout, report)
	return nil
}

// defaultPeriod fills missing year/month flags with the current month.
func defaultPeriod(year, month int) (int, int) {
	now := time.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return core.Date{Time: t}, nil
}

func today() core.Date {
	now := time.Now().UTC()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}
