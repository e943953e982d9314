package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// zonePicker is the content of the zone selection dialog: one checkbox per
// catalog zone, in catalog order, split into columns.
type zonePicker struct {
	ids     []zone.ID
	checks  []*widget.Check
	extra   []zone.ID // selected zones the catalog does not list
	content fyne.CanvasObject
}

func (app *TzConvApp) newZonePicker() *zonePicker {
	ids := app.Catalog.IDs()
	selected := make(map[zone.ID]bool)
	for _, id := range app.State.Selection() {
		selected[id] = true
	}

	p := &zonePicker{ids: ids, checks: make([]*widget.Check, len(ids))}
	var columns []fyne.CanvasObject
	for start := 0; start < len(ids); start += config.ZonesPerColumn {
		end := min(start+config.ZonesPerColumn, len(ids))
		col := container.NewVBox()
		for i := start; i < end; i++ {
			id := ids[i]
			off, _ := app.Catalog.StandardOffset(id)
			c := widget.NewCheck(fmt.Sprintf(config.FormatZoneLabel, id, off), nil)
			c.Checked = selected[id]
			p.checks[i] = c
			col.Add(c)
			delete(selected, id)
		}
		columns = append(columns, col)
	}
	for id := range selected {
		p.extra = append(p.extra, id)
	}

	p.content = container.NewScroll(container.NewHBox(columns...))
	return p
}

// selection returns the ticked zones plus those the dialog could not show.
func (p *zonePicker) selection() []zone.ID {
	out := make([]zone.ID, 0, len(p.ids))
	for i, c := range p.checks {
		if c.Checked {
			out = append(out, p.ids[i])
		}
	}
	return append(out, p.extra...)
}

// ShowZonesDialog displays every catalog zone as a checkbox. Confirming
// replaces the selection; cancelling changes nothing.
func (app *TzConvApp) ShowZonesDialog() {
	p := app.newZonePicker()
	slog.Info(config.MsgOpenZoneDialog,
		config.LogKeyComponent, config.CompUIZones,
		config.LogKeyCount, len(p.ids))

	d := dialog.NewCustomConfirm(
		app.GetMsg(config.TKeyDlgSelectZones),
		app.GetMsg(config.TKeyBtnOK),
		app.GetMsg(config.TKeyBtnCancel),
		p.content,
		func(ok bool) {
			if ok {
				app.State.ReplaceSelection(p.selection())
			}
		},
		app.Window,
	)
	d.Resize(fyne.NewSize(config.ZoneDialogWidth, config.ZoneDialogHeight))
	d.Show()
}
