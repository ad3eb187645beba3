package controller

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

type note struct {
	level, title, msg string
}

type recordingNotifier struct {
	notes []note
}

func (n *recordingNotifier) Info(title, msg string)  { n.notes = append(n.notes, note{"info", title, msg}) }
func (n *recordingNotifier) Warn(title, msg string)  { n.notes = append(n.notes, note{"warn", title, msg}) }
func (n *recordingNotifier) Error(title, msg string) { n.notes = append(n.notes, note{"error", title, msg}) }

func (n *recordingNotifier) last(t *testing.T) note {
	t.Helper()
	if len(n.notes) == 0 {
		t.Fatal("expected a notification")
	}
	return n.notes[len(n.notes)-1]
}

// scriptedPrompter answers prompts in order; a nil answer cancels.
type scriptedPrompter struct {
	answers []*string
	asked   []string
}

func (p *scriptedPrompter) Prompt(title, _ string, done func(string, bool)) {
	p.asked = append(p.asked, title)
	if len(p.answers) == 0 {
		done("", false)
		return
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a == nil {
		done("", false)
		return
	}
	done(*a, true)
}

func answer(s string) *string { return &s }

func newTestDispatcher(t *testing.T, answers ...*string) (*Dispatcher, *recordingNotifier, *scriptedPrompter) {
	t.Helper()
	s, _ := newTestSession(t)
	n := &recordingNotifier{}
	p := &scriptedPrompter{answers: answers}
	d := NewDispatcher(s, n, p, DispatcherConfig{
		Budget:     core.Money{Cents: 10000},
		ExportPath: filepath.Join(t.TempDir(), "expense_records.csv"),
	})
	return d, n, p
}

func seedDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	seed(t, d.Session())
}

func TestDispatcher_SaveValidationError(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.Session().SetForm(core.Form{ItemName: "Coffee", ItemPrice: "abc", PurchaseDate: "01 January 2024"})

	d.Run(context.Background(), CmdSave)

	got := n.last(t)
	if got.level != "error" || !strings.Contains(got.msg, "item_price") {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestDispatcher_DeleteWithoutSelectionWarns(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdDelete)

	got := n.last(t)
	if got.level != "warn" || got.msg != "No record selected to delete." {
		t.Fatalf("unexpected notification %+v", got)
	}
	if len(d.Session().Rows()) != 3 {
		t.Fatal("nothing should be deleted")
	}
}

func TestDispatcher_UpdateWithoutSelectionWarns(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.Run(context.Background(), CmdUpdate)
	if got := n.last(t); got.level != "warn" || got.title != "Select Record" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestDispatcher_SelectAndDelete(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	seedDispatcher(t, d)
	changes := 0
	d.OnChange(func() { changes++ })

	d.Select(0)
	d.Run(context.Background(), CmdDelete)

	if len(n.notes) != 0 {
		t.Fatalf("unexpected notifications %+v", n.notes)
	}
	if len(d.Session().Rows()) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(d.Session().Rows()))
	}
	if changes != 2 {
		t.Fatalf("expected 2 change callbacks, got %d", changes)
	}
}

func TestDispatcher_SelectOutOfRange(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.Select(3)
	if got := n.last(t); got.level != "error" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestDispatcher_Search(t *testing.T) {
	d, _, p := newTestDispatcher(t, answer("Cof"))
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdSearch)

	if len(p.asked) != 1 {
		t.Fatalf("expected one prompt, got %v", p.asked)
	}
	if got := names(d.Session().Rows()); len(got) != 1 || got[0] != "Coffee" {
		t.Fatalf("unexpected rows %v", got)
	}
}

func TestDispatcher_SearchCancelled(t *testing.T) {
	d, n, _ := newTestDispatcher(t, nil)
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdSearch)

	if len(d.Session().Rows()) != 3 || len(n.notes) != 0 {
		t.Fatalf("cancelled search should do nothing: rows=%d notes=%+v", len(d.Session().Rows()), n.notes)
	}
}

func TestDispatcher_FilterDates(t *testing.T) {
	d, _, p := newTestDispatcher(t, answer("01 January 2024"), answer("30 June 2024"))
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdFilterDates)

	if strings.Join(p.asked, ",") != "Start Date,End Date" {
		t.Fatalf("unexpected prompts %v", p.asked)
	}
	if got := strings.Join(names(d.Session().Rows()), ","); got != "Coffee,Tea" {
		t.Fatalf("unexpected rows %s", got)
	}
}

func TestDispatcher_FilterDatesMissingStart(t *testing.T) {
	d, _, p := newTestDispatcher(t, answer(""))
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdFilterDates)

	if len(p.asked) != 1 {
		t.Fatalf("end date should not be asked, prompts %v", p.asked)
	}
	if len(d.Session().Rows()) != 3 {
		t.Fatal("display should be untouched")
	}
}

func TestDispatcher_FilterDatesBadFormat(t *testing.T) {
	d, n, _ := newTestDispatcher(t, answer("yesterday"), answer("30 June 2024"))
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdFilterDates)

	if got := n.last(t); got.level != "error" || !strings.Contains(got.msg, "start_date") {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestDispatcher_ShowAllAfterSearch(t *testing.T) {
	d, _, _ := newTestDispatcher(t, answer("Tea"))
	seedDispatcher(t, d)
	d.Run(context.Background(), CmdSearch)
	d.Run(context.Background(), CmdShowAll)
	if len(d.Session().Rows()) != 3 {
		t.Fatalf("show-all should list every record, got %d", len(d.Session().Rows()))
	}
}

func TestDispatcher_Reports(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	seedDispatcher(t, d)

	d.Run(context.Background(), CmdSummary)
	if got := n.last(t); got.msg != "Total Records: 3\nTotal Expense: 60.00" {
		t.Fatalf("unexpected summary %q", got.msg)
	}

	d.Run(context.Background(), CmdBalance)
	if got := n.last(t); got.msg != "Total Expense: 60.00\nBalance Remaining: 40.00" {
		t.Fatalf("unexpected balance %q", got.msg)
	}

	d.Run(context.Background(), CmdExport)
	if got := n.last(t); got.level != "info" || !strings.HasPrefix(got.msg, "3 records have been exported") {
		t.Fatalf("unexpected export notification %+v", got)
	}
}

func TestDispatcher_ExportFailure(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.exportPath = filepath.Join(t.TempDir(), "missing", "out.csv")

	d.Run(context.Background(), CmdExport)

	if got := n.last(t); got.level != "error" {
		t.Fatalf("expected error notification, got %+v", got)
	}
}

func TestDispatcher_ClearAndToday(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	d.Session().SetForm(core.Form{ItemName: "Tea", ItemPrice: "2"})

	d.Run(context.Background(), CmdToday)
	if _, err := core.ParsePurchaseDate(d.Session().Form().PurchaseDate); err != nil {
		t.Fatalf("today should fill a valid date: %v", err)
	}

	d.Run(context.Background(), CmdClear)
	if !d.Session().Form().IsEmpty() {
		t.Fatal("clear should empty the form")
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.Run(context.Background(), Command("explode"))
	if got := n.last(t); got.level != "error" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestDispatcher_StaysUsableAfterFailure(t *testing.T) {
	d, n, _ := newTestDispatcher(t)
	d.Session().SetForm(core.Form{ItemName: "", ItemPrice: "1", PurchaseDate: "01 January 2024"})
	d.Run(context.Background(), CmdSave)
	if n.last(t).level != "error" {
		t.Fatal("expected failure")
	}

	d.Session().SetForm(core.Form{ItemName: "Coffee", ItemPrice: "1", PurchaseDate: "01 January 2024"})
	before := len(n.notes)
	d.Run(context.Background(), CmdSave)
	if len(n.notes) != before || len(d.Session().Rows()) != 1 {
		t.Fatalf("second save should succeed silently: notes=%+v rows=%d", n.notes, len(d.Session().Rows()))
	}
}
