package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Info implements controller.Notifier.
func (a *App) Info(title, msg string) {
	a.message(title, msg, tcell.ColorDarkSlateGray, tcell.ColorWhite)
}

// Warn implements controller.Notifier.
func (a *App) Warn(title, msg string) {
	a.message(title, msg, tcell.ColorGoldenrod, tcell.ColorBlack)
}

// Error implements controller.Notifier.
func (a *App) Error(title, msg string) {
	a.message(title, msg, tcell.ColorDarkRed, tcell.ColorWhite)
}

func (a *App) message(title, msg string, bg, fg tcell.Color) {
	modal := tview.NewModal().
		SetText(title + "\n\n" + msg).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(PageMessage)
			a.app.SetFocus(a.form)
		}).
		SetBackgroundColor(bg).
		SetTextColor(fg)

	a.pages.AddPage(PageMessage, modal, true, true)
	a.app.SetFocus(modal)
}

// Prompt implements controller.Prompter with a one-field modal form. Enter
// moves to OK, Escape cancels. The modal is removed before done runs, so
// done may open another prompt.
func (a *App) Prompt(title, label string, done func(value string, ok bool)) {
	input := tview.NewInputField().SetLabel(label).SetFieldWidth(24)
	form := tview.NewForm().AddFormItem(input)

	finished := false
	finish := func(ok bool) {
		if finished {
			return
		}
		finished = true
		value := input.GetText()
		a.pages.RemovePage(PagePrompt)
		a.app.SetFocus(a.form)
		done(value, ok)
	}
	form.AddButton("OK", func() { finish(true) }).
		AddButton("Cancel", func() { finish(false) }).
		SetCancelFunc(func() { finish(false) })
	form.SetBorder(true).SetTitle(" " + title + " ")

	a.pages.AddPage(PagePrompt, center(form, 80, 7), true, true)
	a.app.SetFocus(input)
}

// center places p in the middle of the screen at the given size.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
