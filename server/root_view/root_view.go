package root_view

import (
	"context"
	"html/template"
	"log"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"vectorgrid/server/fastview"
	"vectorgrid/server/vector_views"
	"vectorgrid/simulation"
)

// RootView is the main page's index.html: the container for all the view
// components, the wiring for their channels, and the client bootstrap code by
// which the page applies updates and reports interaction back to the server.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// NewRootView creates the main page and the views it contains. The convert
// function wraps raw simulation snapshots with the display state (style,
// surface size, renderer choice) the views need.
func NewRootView(
	ctx context.Context,
	snapshots <-chan []simulation.Vector,
	convert func([]simulation.Vector) vector_views.Frame,
) *RootView {
	views, err := fastview.NewViewBuilder[[]simulation.Vector, vector_views.Frame]().
		WithContext(ctx).
		WithModel(snapshots, convert).
		WithView(func(
			done <-chan struct{},
			frames <-chan vector_views.Frame) fastview.ViewComponent {
			return vector_views.NewFieldView(done, frames)
		}).
		WithView(func(
			done <-chan struct{},
			frames <-chan vector_views.Frame) fastview.ViewComponent {
			return vector_views.NewCanvasView(done, frames)
		}).
		WithView(func(
			done <-chan struct{},
			frames <-chan vector_views.Frame) fastview.ViewComponent {
			return vector_views.NewStatsView(done, frames)
		}).
		Build()

	if err != nil {
		// Build errors are static wiring mistakes, not runtime conditions.
		log.Fatal(err)
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and
// returns its name.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	viewTemplates := []string{}
	for _, vc := range rv.views {
		var tname string
		if tname, err = vc.Parse(parent); err != nil {
			return
		}
		viewTemplates = append(viewTemplates, tname)
	}

	// Specify the nested templates
	var bodySpec string
	for _, tname := range viewTemplates {
		bodySpec += (`{{ template "` + tname + `" . }}`)
	}

	// The main template bootstraps the rest: sets up the client websocket,
	// applies pushed ele-updates, and reports clicks, resizes, and key
	// commands back as JSON messages.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<title>vectorgrid</title>
			<style>body { margin: 0; background: #101418; }</style>
			<script>
				const ws = new WebSocket("ws://" + location.host + "/ws");
				ws.onopen = function (event) {
					console.log("web socket opened");
					sendCmd({cmd: "resize", width: window.innerWidth, height: window.innerHeight, scale: window.devicePixelRatio || 1});
				};

				ws.onerror = function (event) {
					console.log("websocket error: ", event);
				};

				// The meat: when the server pushes view updates, find these eles and update them.
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data);
					for (const update of items) {
						const ele = document.getElementById(update.EleId);
						if (!ele) continue;
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else if (op.Key === "innerHTML") {
								ele.innerHTML = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value);
							}
						}
					}
				};

				function sendCmd(obj) {
					if (ws.readyState === WebSocket.OPEN) {
						ws.send(JSON.stringify(obj));
					}
				}

				// Clicks ripple outward from the cursor.
				document.addEventListener("click", function (e) {
					sendCmd({cmd: "pulse", x: e.clientX / window.innerWidth, y: e.clientY / window.innerHeight, strength: 1.0});
				});

				// Resizes are debounced; the server regenerates the grid.
				let resizeTimer = null;
				window.addEventListener("resize", function () {
					clearTimeout(resizeTimer);
					resizeTimer = setTimeout(function () {
						sendCmd({cmd: "resize", width: window.innerWidth, height: window.innerHeight, scale: window.devicePixelRatio || 1});
					}, 150);
				});

				document.addEventListener("keydown", function (e) {
					if (e.key === " ") {
						sendCmd({cmd: "pause"});
					} else if (e.key === "r") {
						sendCmd({cmd: "renderer"});
					}
				});
			</script>
		</head>
		<body>
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = parent.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel,
// and throttles its output.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		time.Millisecond*20)
}

// batchify batches within the passed time frame before sending, over-writing
// previously received values for the same ele-id. This ensures that redundant
// updates for the same ele-id are not sent, and only the latest values are sent.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		last := time.Now()
		for updates := range channerics.OrDone(done, source) {
			// Intentionally overwrites pre-existing values for an ele-id
			// within this batch's time frame.
			for _, update := range updates {
				data[update.EleId] = update
			}

			if time.Since(last) > rate && len(data) > 0 {
				select {
				case output <- slicedVals(data):
					data = map[string]fastview.EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
