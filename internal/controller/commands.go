package controller

import (
	"context"
	"errors"
	"fmt"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

// Command names a user action. UI adapters bind buttons and keys to these.
type Command string

const (
	CmdSave        Command = "save"
	CmdUpdate      Command = "update"
	CmdDelete      Command = "delete"
	CmdClear       Command = "clear"
	CmdToday       Command = "today"
	CmdSearch      Command = "search"
	CmdFilterDates Command = "filter-dates"
	CmdShowAll     Command = "show-all"
	CmdExport      Command = "export"
	CmdBalance     Command = "balance"
	CmdSummary     Command = "summary"
)

// Commands lists every command in display order.
var Commands = []Command{
	CmdSave, CmdUpdate, CmdDelete, CmdClear, CmdToday,
	CmdSearch, CmdFilterDates, CmdShowAll,
	CmdExport, CmdBalance, CmdSummary,
}

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	Info(title, msg string)
	Warn(title, msg string)
	Error(title, msg string)
}

// Prompter asks the user for one line of text. done receives the text and
// ok=false when the prompt was cancelled. done may run after Prompt returns.
type Prompter interface {
	Prompt(title, label string, done func(value string, ok bool))
}

// Dispatcher runs commands against a Session and reports every outcome
// through the Notifier. Failures never escape; the session stays usable.
type Dispatcher struct {
	session    *Session
	notifier   Notifier
	prompter   Prompter
	budget     core.Money
	exportPath string
	logger     *log.Logger
	onChange   func()
}

// DispatcherConfig carries the settings commands need.
type DispatcherConfig struct {
	Budget     core.Money
	ExportPath string
	Logger     *log.Logger
}

func NewDispatcher(s *Session, n Notifier, p Prompter, cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Dispatcher{
		session:    s,
		notifier:   n,
		prompter:   p,
		budget:     cfg.Budget,
		exportPath: cfg.ExportPath,
		logger:     logger.WithComponent(log.ComponentController),
		onChange:   func() {},
	}
}

// OnChange registers fn to run after every command, including commands
// completed later from a prompt callback.
func (d *Dispatcher) OnChange(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	d.onChange = fn
}

// Session returns the session the dispatcher drives.
func (d *Dispatcher) Session() *Session { return d.session }

// Run executes cmd.
func (d *Dispatcher) Run(ctx context.Context, cmd Command) {
	d.logger.DebugContext(ctx, "Running command", log.FieldCommand, string(cmd))

	switch cmd {
	case CmdSave:
		d.report(ctx, cmd, d.session.Save(ctx))
	case CmdUpdate:
		d.report(ctx, cmd, d.session.Update(ctx))
	case CmdDelete:
		d.report(ctx, cmd, d.session.DeleteSelected(ctx))
	case CmdClear:
		d.session.ClearForm()
	case CmdToday:
		d.session.SetCurrentDate()
	case CmdShowAll:
		d.report(ctx, cmd, d.session.Load(ctx))
	case CmdSearch:
		d.search(ctx)
		return
	case CmdFilterDates:
		d.filterDates(ctx)
		return
	case CmdExport:
		d.export(ctx)
	case CmdBalance:
		d.balance(ctx)
	case CmdSummary:
		d.summary(ctx)
	default:
		d.notifier.Error("Error", fmt.Sprintf("unknown command %q", cmd))
	}
	d.onChange()
}

// Select routes a click on the displayed row at index.
func (d *Dispatcher) Select(index int) {
	if err := d.session.SelectRow(index); err != nil {
		d.notifier.Error("Error", err.Error())
	}
	d.onChange()
}

func (d *Dispatcher) search(ctx context.Context) {
	d.prompter.Prompt("Search", "Enter item name or date (dd Month yyyy):", func(term string, ok bool) {
		if ok {
			_, err := d.session.Search(ctx, term)
			d.report(ctx, CmdSearch, err)
		}
		d.onChange()
	})
}

func (d *Dispatcher) filterDates(ctx context.Context) {
	d.prompter.Prompt("Start Date", "Enter start date (dd Month yyyy):", func(start string, ok bool) {
		if !ok || start == "" {
			d.onChange()
			return
		}
		d.prompter.Prompt("End Date", "Enter end date (dd Month yyyy):", func(end string, ok bool) {
			if ok {
				_, err := d.session.FilterByDateRange(ctx, start, end)
				d.report(ctx, CmdFilterDates, err)
			}
			d.onChange()
		})
	})
}

func (d *Dispatcher) export(ctx context.Context) {
	n, err := d.session.ExportCSV(ctx, d.exportPath)
	if err != nil {
		d.report(ctx, CmdExport, err)
		return
	}
	d.notifier.Info("Export Success", fmt.Sprintf("%d records have been exported to %s", n, d.exportPath))
}

func (d *Dispatcher) balance(ctx context.Context) {
	b, err := d.session.TotalBalance(ctx, d.budget)
	if err != nil {
		d.report(ctx, CmdBalance, err)
		return
	}
	d.notifier.Info("Balance", fmt.Sprintf("Total Expense: %s\nBalance Remaining: %s", b.Spent, b.Remaining))
}

func (d *Dispatcher) summary(ctx context.Context) {
	s, err := d.session.Summary(ctx)
	if err != nil {
		d.report(ctx, CmdSummary, err)
		return
	}
	d.notifier.Info("Summary Report", fmt.Sprintf("Total Records: %d\nTotal Expense: %s", s.Count, s.Total))
}

// report turns a command error into a notification: a missing selection is
// a warning, anything else an error.
func (d *Dispatcher) report(ctx context.Context, cmd Command, err error) {
	if err == nil {
		return
	}
	fields := log.NewFields().WithOperation(string(cmd)).WithError(err)
	if errors.Is(err, core.ErrNoSelection) {
		d.logger.DebugContext(ctx, "Command needs a selection", fields.ToSlice()...)
		d.notifier.Warn("Select Record", selectionHint(cmd))
		return
	}
	d.logger.WarnContext(ctx, "Command failed", fields.ToSlice()...)
	d.notifier.Error("Error", err.Error())
}

func selectionHint(cmd Command) string {
	switch cmd {
	case CmdDelete:
		return "No record selected to delete."
	case CmdUpdate:
		return "No record selected to update."
	default:
		return "No record selected."
	}
}
