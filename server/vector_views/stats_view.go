package vector_views

import (
	"fmt"
	"html/template"

	channerics "github.com/niceyeti/channerics/channels"

	"vectorgrid/server/fastview"
)

// StatsView is a small readout of the simulation's health: frame rate, cell
// count, and the drop/fault counters. In debug mode a grid that resolves to
// zero cells shows a diagnostic instead of a blank page.
type StatsView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewStatsView(
	done <-chan struct{},
	frames <-chan Frame,
) (sv *StatsView) {
	sv = &StatsView{id: "statsview"}
	sv.updates = channerics.Convert(done, frames, sv.onUpdate)
	return
}

func (sv *StatsView) Updates() <-chan []fastview.EleUpdate {
	return sv.updates
}

func (sv *StatsView) onUpdate(f Frame) []fastview.EleUpdate {
	status := ""
	if f.Debug && len(f.Vectors) == 0 {
		status = "no cells resolved: grid smaller than spacing plus margins"
	}

	return []fastview.EleUpdate{
		{EleId: sv.id + "-fps", Ops: []fastview.Op{{Key: "textContent", Value: fmt.Sprintf("%.1f", f.FPS)}}},
		{EleId: sv.id + "-cells", Ops: []fastview.Op{{Key: "textContent", Value: fmt.Sprintf("%d", len(f.Vectors))}}},
		{EleId: sv.id + "-drops", Ops: []fastview.Op{{Key: "textContent", Value: fmt.Sprintf("%d", f.Drops)}}},
		{EleId: sv.id + "-faults", Ops: []fastview.Op{{Key: "textContent", Value: fmt.Sprintf("%d", f.Faults)}}},
		{EleId: sv.id + "-status", Ops: []fastview.Op{{Key: "textContent", Value: status}}},
	}
}

func (sv *StatsView) Parse(
	t *template.Template,
) (name string, err error) {
	name = sv.id
	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div id="` + sv.id + `" style="font-family:monospace; color:#9ab;">
			fps <span id="` + sv.id + `-fps">0</span>
			cells <span id="` + sv.id + `-cells">{{ len .Vectors }}</span>
			drops <span id="` + sv.id + `-drops">0</span>
			faults <span id="` + sv.id + `-faults">0</span>
			<span id="` + sv.id + `-status" style="color:#d66;"></span>
		</div>
		{{ end }}`)
	return
}
