//go:build dashboard

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rivo/tview"
)

// health mirrors the server's /healthz response.
type health struct {
	Store  bool `json:"store"`
	Events bool `json:"events"`
}

func fetchHealth() (health, error) {
	resp, err := http.Get("http://localhost:8080/healthz")
	if err != nil {
		return health{}, err
	}
	defer resp.Body.Close()
	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return health{}, err
	}
	return h, nil
}

func main() {
	app := tview.NewApplication()
	table := tview.NewTable().SetBorders(true)

	update := func() {
		h, err := fetchHealth()
		status := "reachable"
		if err != nil {
			status = "unreachable"
		}
		app.QueueUpdateDraw(func() {
			table.Clear()
			headers := []string{"Component", "Status"}
			for i, hdr := range headers {
				table.SetCell(0, i, tview.NewTableCell(hdr).SetSelectable(false))
			}
			table.SetCell(1, 0, tview.NewTableCell("api"))
			table.SetCell(1, 1, tview.NewTableCell(status))
			table.SetCell(2, 0, tview.NewTableCell("store"))
			table.SetCell(2, 1, tview.NewTableCell(fmt.Sprintf("%v", h.Store)))
			table.SetCell(3, 0, tview.NewTableCell("events"))
			table.SetCell(3, 1, tview.NewTableCell(fmt.Sprintf("%v", h.Events)))
		})
	}

	go func() {
		for {
			update()
			time.Sleep(time.Second)
		}
	}()

	if err := app.SetRoot(table, true).Run(); err != nil {
		panic(err)
	}
}
