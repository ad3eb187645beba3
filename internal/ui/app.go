// Package ui is the terminal front end. It only lays out widgets and routes
// key presses and clicks to controller commands; all behavior lives in the
// controller package.
package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"expense-tracker/internal/controller"
	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

const (
	// PageMain holds the form, the buttons and the record table.
	PageMain = "Main"
	// PageMessage is the modal used by the notifier.
	PageMessage = "Message"
	// PagePrompt is the modal used by the prompter.
	PagePrompt = "Prompt"
)

// Title is shown in the border of the main page.
const Title = "Daily Expense Tracker"

var buttonLabels = map[controller.Command]string{
	controller.CmdSave:        "Save Record",
	controller.CmdUpdate:      "Update",
	controller.CmdDelete:      "Delete",
	controller.CmdClear:       "Clear Entry",
	controller.CmdToday:       "Current Date",
	controller.CmdSearch:      "Search",
	controller.CmdFilterDates: "Filter by Date Range",
	controller.CmdShowAll:     "Show All",
	controller.CmdExport:      "Export to CSV",
	controller.CmdBalance:     "Total Balance",
	controller.CmdSummary:     "View Summary",
}

var columnHeaders = []string{"Serial No", "Item Name", "Item Price", "Purchase Date"}

// App is the tview application bound to one controller session.
type App struct {
	ctx        context.Context
	app        *tview.Application
	pages      *tview.Pages
	layout     *tview.Flex
	form       *tview.Form
	name       *tview.InputField
	price      *tview.InputField
	date       *tview.InputField
	table      *tview.Table
	status     *tview.TextView
	session    *controller.Session
	dispatcher *controller.Dispatcher
	logger     *log.Logger
}

// New builds the widgets around session. The returned App is its own
// Notifier and Prompter.
func New(ctx context.Context, session *controller.Session, cfg controller.DispatcherConfig) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	a := &App{
		ctx:     ctx,
		app:     tview.NewApplication(),
		pages:   tview.NewPages(),
		session: session,
		logger:  logger.WithComponent(log.ComponentUI),
	}
	a.dispatcher = controller.NewDispatcher(session, a, a, cfg)
	a.dispatcher.OnChange(a.render)

	a.name = tview.NewInputField().SetLabel("Item Name").SetFieldWidth(30)
	a.name.SetAutocompleteFunc(func(text string) []string {
		names, err := a.session.Suggest(a.ctx, text)
		if err != nil {
			a.logger.WarnContext(a.ctx, "Autocomplete failed", log.FieldError, err)
			return nil
		}
		return names
	})
	a.price = tview.NewInputField().SetLabel("Item Price").SetFieldWidth(12)
	a.date = tview.NewInputField().SetLabel("Purchase Date").SetFieldWidth(20).
		SetPlaceholder("dd Month yyyy")

	a.form = tview.NewForm().
		AddFormItem(a.name).
		AddFormItem(a.price).
		AddFormItem(a.date)
	a.form.SetBorder(true).SetTitle(" " + Title + " ")

	buttons := tview.NewFlex().SetDirection(tview.FlexColumn)
	for i, cmd := range controller.Commands {
		cmd := cmd
		if i > 0 {
			buttons.AddItem(nil, 1, 0, false)
		}
		buttons.AddItem(tview.NewButton(buttonLabels[cmd]).SetSelectedFunc(func() {
			a.run(cmd)
		}), 0, 1, false)
	}
	buttons.AddItem(nil, 1, 0, false)
	buttons.AddItem(tview.NewButton("Exit").SetSelectedFunc(a.Stop), 0, 1, false)

	a.table = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)
	a.table.SetBorder(true)
	a.table.SetSelectedFunc(func(row, _ int) {
		if row == 0 {
			return
		}
		a.dispatcher.Select(row - 1)
	})

	a.status = tview.NewTextView().SetDynamicColors(true)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.form, 9, 0, true).
		AddItem(buttons, 1, 0, false).
		AddItem(a.table, 0, 1, false).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage(PageMain, a.layout, true, true)

	a.app.SetInputCapture(a.keys)
	a.app.SetRoot(a.pages, true).EnableMouse(true)

	return a
}

// Dispatcher exposes the command dispatcher, e.g. for key bindings.
func (a *App) Dispatcher() *controller.Dispatcher { return a.dispatcher }

// Run loads every record and blocks until the user exits.
func (a *App) Run() error {
	a.dispatcher.Run(a.ctx, controller.CmdShowAll)
	a.app.SetFocus(a.form)
	if err := a.app.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// Stop ends Run.
func (a *App) Stop() {
	a.app.Stop()
}

// run copies the widgets into the session form, then executes cmd.
func (a *App) run(cmd controller.Command) {
	a.session.SetForm(core.Form{
		ItemName:     a.name.GetText(),
		ItemPrice:    a.price.GetText(),
		PurchaseDate: a.date.GetText(),
	})
	a.dispatcher.Run(a.ctx, cmd)
}

func (a *App) keys(event *tcell.EventKey) *tcell.EventKey {
	if front, _ := a.pages.GetFrontPage(); front != PageMain {
		return event
	}
	switch event.Key() {
	case tcell.KeyCtrlS:
		a.run(controller.CmdSave)
	case tcell.KeyCtrlU:
		a.run(controller.CmdUpdate)
	case tcell.KeyCtrlD:
		a.run(controller.CmdDelete)
	case tcell.KeyCtrlF:
		a.run(controller.CmdSearch)
	case tcell.KeyCtrlT:
		a.app.SetFocus(a.table)
	case tcell.KeyCtrlE:
		a.app.SetFocus(a.form)
	default:
		return event
	}
	return nil
}

// render mirrors the session into the widgets.
func (a *App) render() {
	f := a.session.Form()
	a.name.SetText(f.ItemName)
	a.price.SetText(f.ItemPrice)
	a.date.SetText(f.PurchaseDate)

	a.table.Clear()
	for col, h := range columnHeaders {
		a.table.SetCell(0, col, tview.NewTableCell("[yellow::b]"+h).
			SetAlign(tview.AlignCenter).
			SetSelectable(false).
			SetExpansion(1))
	}
	selected, hasSelection := a.session.Selected()
	for i, r := range a.session.Rows() {
		color := "[white]"
		if hasSelection && r.ID == selected {
			color = "[lightgreen]"
		}
		cells := []string{fmt.Sprint(r.ID), r.ItemName, r.ItemPrice.String(), r.PurchaseDate}
		for col, text := range cells {
			a.table.SetCell(i+1, col, tview.NewTableCell(color+tview.Escape(text)).
				SetAlign(tview.AlignCenter).
				SetExpansion(1))
		}
	}

	if hasSelection {
		a.status.SetText(fmt.Sprintf("[lightgreen]editing record %d[-]  %d rows shown", selected, len(a.session.Rows())))
	} else {
		a.status.SetText(fmt.Sprintf("[gray]%d rows shown", len(a.session.Rows())))
	}
}
