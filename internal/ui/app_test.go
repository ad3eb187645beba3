package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"expense-tracker/internal/controller"
	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	for _, e := range []core.Expense{
		{ItemName: "Coffee", ItemPrice: core.Money{Cents: 1000}, PurchaseDate: "01 January 2024"},
		{ItemName: "Tea", ItemPrice: core.Money{Cents: 2000}, PurchaseDate: "15 June 2024"},
	} {
		if _, err := repo.Insert(context.Background(), e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	s := controller.NewSession(repo)
	return New(context.Background(), s, controller.DispatcherConfig{
		Budget:     core.Money{Cents: 500000},
		ExportPath: filepath.Join(t.TempDir(), "out.csv"),
	})
}

func cellText(tb *tview.Table, row, col int) string {
	c := tb.GetCell(row, col)
	if c == nil {
		return ""
	}
	return c.Text
}

func TestRenderShowsRows(t *testing.T) {
	a := newTestApp(t)
	a.Dispatcher().Run(context.Background(), controller.CmdShowAll)

	if got := a.table.GetRowCount(); got != 3 {
		t.Fatalf("expected header + 2 rows, got %d", got)
	}
	if !strings.HasSuffix(cellText(a.table, 0, 0), "Serial No") {
		t.Fatalf("unexpected header %q", cellText(a.table, 0, 0))
	}
	if !strings.HasSuffix(cellText(a.table, 2, 1), "Tea") || !strings.HasSuffix(cellText(a.table, 2, 2), "20.00") {
		t.Fatalf("unexpected row %q %q", cellText(a.table, 2, 1), cellText(a.table, 2, 2))
	}
}

func TestSelectFillsInputs(t *testing.T) {
	a := newTestApp(t)
	a.Dispatcher().Run(context.Background(), controller.CmdShowAll)
	a.Dispatcher().Select(0)

	if a.name.GetText() != "Coffee" || a.price.GetText() != "10.00" || a.date.GetText() != "01 January 2024" {
		t.Fatalf("inputs not filled: %q %q %q", a.name.GetText(), a.price.GetText(), a.date.GetText())
	}
}

func TestRunCopiesInputsIntoSession(t *testing.T) {
	a := newTestApp(t)
	a.name.SetText("Cake")
	a.price.SetText("4,20")
	a.date.SetText("02 February 2024")

	a.run(controller.CmdSave)

	if got := a.table.GetRowCount(); got != 4 {
		t.Fatalf("expected saved row to appear, row count %d", got)
	}
	if a.name.GetText() != "" {
		t.Fatal("inputs should be cleared after save")
	}
}

func TestNotifierShowsModal(t *testing.T) {
	a := newTestApp(t)
	a.Warn("Select Record", "No record selected to delete.")

	if front, _ := a.pages.GetFrontPage(); front != PageMessage {
		t.Fatalf("front page = %q, want %q", front, PageMessage)
	}
}

func TestPromptReturnsText(t *testing.T) {
	a := newTestApp(t)
	var got string
	var gotOK bool
	a.Prompt("Search", "Term:", func(v string, ok bool) { got, gotOK = v, ok })

	if front, _ := a.pages.GetFrontPage(); front != PagePrompt {
		t.Fatalf("front page = %q, want %q", front, PagePrompt)
	}

	form := findForm(t, a)
	form.GetFormItem(0).(*tview.InputField).SetText("Cof")
	press(form.GetButton(0))

	if got != "Cof" || !gotOK {
		t.Fatalf("prompt returned %q ok=%v", got, gotOK)
	}
	if a.pages.HasPage(PagePrompt) {
		t.Fatal("prompt page should be removed")
	}
}

func TestPromptCancel(t *testing.T) {
	a := newTestApp(t)
	called := 0
	gotOK := true
	a.Prompt("Search", "Term:", func(_ string, ok bool) { called++; gotOK = ok })

	form := findForm(t, a)
	press(form.GetButton(1))
	press(form.GetButton(1))

	if called != 1 || gotOK {
		t.Fatalf("cancel should report once with ok=false, called=%d ok=%v", called, gotOK)
	}
}

func findForm(t *testing.T, a *App) *tview.Form {
	t.Helper()
	_, page := a.pages.GetFrontPage()
	outer, ok := page.(*tview.Flex)
	if !ok {
		t.Fatalf("unexpected prompt page %T", page)
	}
	inner := outer.GetItem(1).(*tview.Flex)
	return inner.GetItem(1).(*tview.Form)
}

func press(b *tview.Button) {
	b.InputHandler()(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), func(tview.Primitive) {})
}
