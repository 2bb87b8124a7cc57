package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"saki/internal/calculator"
	"saki/internal/core"
)

func (a *app) calc(args []string) error {
	if len(args) == 0 {
		return errors.New("calc: expected vat, tax, discount, markup, margin, breakeven, simple, compound, eval or repl")
	}
	name, args := args[0], args[1:]
	switch name {
	case "eval":
		return a.calcEval(args)
	case "repl":
		return a.calcREPL()
	}

	fs := newFlagSet("calc "+name, a.stderr)
	inputs := map[string]*decimalFlag{}
	input := func(flagName, usage string) *decimalFlag {
		f := &decimalFlag{value: decimal.Zero}
		fs.Var(f, flagName, usage)
		inputs[flagName] = f
		return f
	}

	var show func(tw *tabwriter.Writer) error
	switch name {
	case "vat":
		amount, rate := input("amount", "Net amount"), input("rate", "VAT rate in percent")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.VAT(amount.value, rate.value)
			row(tw, "Amount", core.FormatCurrency(r.Amount))
			row(tw, "Rate", r.Rate.String()+"%")
			row(tw, "VAT", core.FormatCurrency(r.VAT))
			row(tw, "Total", core.FormatCurrency(r.Total))
			return nil
		}
	case "tax":
		amount, rate := input("amount", "Gross amount"), input("rate", "Tax rate in percent")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.Tax(amount.value, rate.value)
			row(tw, "Amount", core.FormatCurrency(r.Amount))
			row(tw, "Rate", r.Rate.String()+"%")
			row(tw, "Tax", core.FormatCurrency(r.Tax))
			row(tw, "Net", core.FormatCurrency(r.Net))
			return nil
		}
	case "discount":
		amount, percent := input("amount", "Original amount"), input("percent", "Discount in percent")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.Discount(amount.value, percent.value)
			row(tw, "Amount", core.FormatCurrency(r.Amount))
			row(tw, "Discount", core.FormatCurrency(r.Discount))
			row(tw, "Final", core.FormatCurrency(r.Final))
			return nil
		}
	case "markup":
		cost, percent := input("cost", "Unit cost"), input("percent", "Markup in percent")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.Markup(cost.value, percent.value)
			row(tw, "Cost", core.FormatCurrency(r.Cost))
			row(tw, "Markup", core.FormatCurrency(r.Markup))
			row(tw, "Price", core.FormatCurrency(r.Price))
			return nil
		}
	case "margin":
		revenue, cost := input("revenue", "Revenue"), input("cost", "Cost")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.ProfitMargin(revenue.value, cost.value)
			row(tw, "Revenue", core.FormatCurrency(r.Revenue))
			row(tw, "Cost", core.FormatCurrency(r.Cost))
			row(tw, "Profit", core.FormatCurrency(r.Profit))
			row(tw, "Margin", r.Margin.StringFixed(2)+"%")
			return nil
		}
	case "breakeven":
		fixed, price, cost := input("fixed", "Fixed costs"), input("price", "Unit price"), input("cost", "Unit cost")
		show = func(tw *tabwriter.Writer) error {
			r, err := calculator.BreakEven(fixed.value, price.value, cost.value)
			if err != nil {
				return err
			}
			row(tw, "Contribution margin", core.FormatCurrency(r.ContributionMargin))
			row(tw, "Units", r.Units.StringFixed(2))
			row(tw, "Revenue", core.FormatCurrency(r.Revenue))
			return nil
		}
	case "simple":
		principal, rate, years := input("principal", "Principal"), input("rate", "Yearly rate in percent"), input("years", "Years")
		show = func(tw *tabwriter.Writer) error {
			r := calculator.SimpleInterest(principal.value, rate.value, years.value)
			row(tw, "Principal", core.FormatCurrency(r.Principal))
			row(tw, "Interest", core.FormatCurrency(r.Interest))
			row(tw, "Total", core.FormatCurrency(r.Total))
			return nil
		}
	case "compound":
		principal, rate, years := input("principal", "Principal"), input("rate", "Yearly rate in percent"), input("years", "Years")
		n := fs.Int("n", 12, "Compounding periods per year")
		show = func(tw *tabwriter.Writer) error {
			r, err := calculator.CompoundInterest(principal.value, rate.value, years.value, *n)
			if err != nil {
				return err
			}
			row(tw, "Principal", core.FormatCurrency(r.Principal))
			row(tw, "Amount", core.FormatCurrency(r.Amount))
			row(tw, "Interest", core.FormatCurrency(r.Interest))
			return nil
		}
	default:
		return fmt.Errorf("calc: unknown operation %q", name)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireDecimals(inputs); err != nil {
		return err
	}
	tw := newTable(a.stdout)
	if err := show(tw); err != nil {
		return err
	}
	return tw.Flush()
}

func row(tw *tabwriter.Writer, label, value string) {
	fmt.Fprintf(tw, "%s:\t%s\n", label, value)
}

func (a *app) calcEval(args []string) error {
	expr := strings.Join(args, " ")
	if strings.TrimSpace(expr) == "" {
		return errors.New("calc eval: expected an expression")
	}
	result, err := a.newCalculator().Evaluate(expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, result.String())
	return nil
}

// calcREPL evaluates one expression per line. A prompt is shown only when
// stdin is a terminal so piped input produces clean output.
func (a *app) calcREPL() error {
	c := a.newCalculator()
	interactive := false
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		interactive = true
		fmt.Fprintln(a.stdout, "Enter an expression, or: last, history, clear, quit")
	}
	prompt := func() {
		if interactive {
			fmt.Fprint(a.stdout, "> ")
		}
	}

	scanner := bufio.NewScanner(a.stdin)
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "quit", "exit":
			return nil
		case "last":
			fmt.Fprintln(a.stdout, c.LastResult().String())
		case "history":
			for _, h := range c.History(10) {
				fmt.Fprintln(a.stdout, h)
			}
		case "clear":
			c.ClearHistory()
		default:
			result, err := c.Evaluate(line)
			if err != nil {
				fmt.Fprintf(a.stdout, "error: %v\n", err)
			} else {
				fmt.Fprintln(a.stdout, result.String())
			}
		}
		prompt()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
