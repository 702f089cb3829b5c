// server ties the simulation to the web surface: it serves the live page,
// relays view updates and page commands over the websocket, and exposes
// one-shot snapshot endpoints for both render backends.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"vectorgrid/controls"
	"vectorgrid/geometry"
	"vectorgrid/render"
	"vectorgrid/server/fastview"
	"vectorgrid/server/root_view"
	"vectorgrid/server/vector_views"
	"vectorgrid/shapes"
	"vectorgrid/simulation"
)

// Display is the page-level presentation state: everything a frame needs
// beyond the simulation snapshot itself.
type Display struct {
	Style       shapes.Style
	Width       int
	Height      int
	DeviceScale float64
	Renderer    string
	// Debug surfaces diagnostic readouts in the stats view.
	Debug bool
}

// Server owns the display state and the grid selector; the simulation
// controller owns the animated state. Commands arriving over the websocket
// mutate one or the other, never both at once.
type Server struct {
	addr        string
	controller  *simulation.Controller
	store       *controls.Store
	rootView    *root_view.RootView
	mu          sync.RWMutex
	display     Display
	simSettings simulation.Settings
}

// NewServer wires the views to the controller's update stream and seeds the
// grid selector.
func NewServer(
	ctx context.Context,
	addr string,
	controller *simulation.Controller,
	display Display,
	simSettings simulation.Settings,
	gridProps controls.Props,
) *Server {
	if display.Renderer == "" {
		display.Renderer = vector_views.RendererSVG
	}
	if display.DeviceScale <= 0 {
		display.DeviceScale = 1
	}

	server := &Server{
		addr:        addr,
		controller:  controller,
		display:     display,
		simSettings: simSettings,
	}
	server.store = controls.NewStore(gridProps, server.onGridChange)
	server.rootView = root_view.NewRootView(ctx, controller.Updates(), server.convert)
	return server
}

// convert wraps a simulation snapshot with the current display state, forming
// the view-model every view consumes.
func (server *Server) convert(snap []simulation.Vector) vector_views.Frame {
	server.mu.RLock()
	display := server.display
	server.mu.RUnlock()

	monitor := server.controller.Perf()
	return vector_views.Frame{
		Vectors:     snap,
		Style:       display.Style,
		Width:       display.Width,
		Height:      display.Height,
		Renderer:    display.Renderer,
		DeviceScale: display.DeviceScale,
		T:           server.controller.Elapsed(),
		FPS:         monitor.FPS(),
		Drops:       monitor.Drops(),
		Faults:      monitor.Faults(),
		Debug:       display.Debug,
	}
}

// onGridChange regenerates the grid whenever the selector resolves a new
// effective configuration.
func (server *Server) onGridChange(eff controls.Effective) {
	server.mu.RLock()
	w, h := server.display.Width, server.display.Height
	server.mu.RUnlock()

	server.controller.Resize(geometry.Compute(float64(w), float64(h), eff.Settings, eff.Ratio))
}

func (server *Server) Serve() (err error) {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)
	router.HandleFunc("/snapshot.svg", server.serveSnapshotSVG).Methods(http.MethodGet)
	router.HandleFunc("/frame.png", server.serveFramePNG).Methods(http.MethodGet)

	if err = http.ListenAndServe(server.addr, router); err != nil {
		err = fmt.Errorf("serve: %w", err)
	}
	return
}

// serveWebsocket runs one client's pumps until disconnect: view updates out,
// page commands in.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(server.rootView.Updates(), server.handleCommand, w, r)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	defer cli.Close()
	if err := cli.Sync(); err != nil {
		log.Println("client teardown:", err)
	}
}

// command is the envelope for every page-to-server message. Only the fields
// relevant to a given Cmd are read.
type command struct {
	Cmd      string  `json:"cmd"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Strength float64 `json:"strength"`
	Radius   float64 `json:"radius"`

	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`

	Renderer string `json:"renderer"`

	Mode    string  `json:"mode"`
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Spacing float64 `json:"spacing"`
	Margin  float64 `json:"margin"`
	Ratio   string  `json:"ratio"`
	RatioW  float64 `json:"ratioW"`
	RatioH  float64 `json:"ratioH"`

	Animation string  `json:"animation"`
	Easing    float64 `json:"easing"`
	TimeScale float64 `json:"timeScale"`
}

// handleCommand dispatches one page command. Malformed or unknown commands
// are logged and dropped; they never tear down the connection.
func (server *Server) handleCommand(payload []byte) {
	var cmd command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		log.Printf("bad command %q: %v", payload, err)
		return
	}

	switch cmd.Cmd {
	case "pulse":
		strength := cmd.Strength
		if strength == 0 {
			strength = 1
		}
		server.controller.Pulse(strength, cmd.X, cmd.Y, cmd.Radius)

	case "pause":
		server.controller.TogglePause()

	case "resize":
		server.mu.Lock()
		server.display.Width = cmd.Width
		server.display.Height = cmd.Height
		if cmd.Scale > 0 {
			server.display.DeviceScale = cmd.Scale
		}
		server.mu.Unlock()
		server.onGridChange(server.store.Effective())

	case "renderer":
		server.mu.Lock()
		switch cmd.Renderer {
		case vector_views.RendererSVG, vector_views.RendererCanvas:
			server.display.Renderer = cmd.Renderer
		default:
			// Toggle when unspecified.
			if server.display.Renderer == vector_views.RendererSVG {
				server.display.Renderer = vector_views.RendererCanvas
			} else {
				server.display.Renderer = vector_views.RendererSVG
			}
		}
		server.mu.Unlock()

	case "mode":
		server.store.Dispatch(controls.Action{
			Type: controls.SetActiveMode,
			Mode: controls.Mode(cmd.Mode),
		})

	case "settings":
		server.store.Dispatch(controls.Action{
			Type: controls.UpdateSettings,
			Mode: controls.Mode(cmd.Mode),
			Settings: geometry.Settings{
				Rows:    cmd.Rows,
				Cols:    cmd.Cols,
				Spacing: cmd.Spacing,
				Margin:  cmd.Margin,
			},
		})

	case "ratio":
		ratio, err := geometry.NamedRatio(cmd.Ratio)
		if err != nil {
			if cmd.Ratio != "custom" {
				log.Printf("ratio command: %v", err)
				return
			}
			ratio = geometry.Ratio{Mode: geometry.RatioCustom}
		}
		server.store.Dispatch(controls.Action{
			Type:  controls.UpdateRatio,
			Mode:  controls.Mode(cmd.Mode),
			Ratio: ratio,
		})

	case "customRatio":
		server.store.Dispatch(controls.Action{
			Type:    controls.UpdateCustomRatio,
			Mode:    controls.Mode(cmd.Mode),
			CustomW: cmd.RatioW,
			CustomH: cmd.RatioH,
		})

	case "animation":
		server.mu.Lock()
		next := server.simSettings
		next.AnimationType = cmd.Animation
		if cmd.Easing > 0 {
			next.Easing = cmd.Easing
		}
		if cmd.TimeScale > 0 {
			next.TimeScale = cmd.TimeScale
		}
		server.mu.Unlock()

		if err := server.controller.Configure(next); err != nil {
			log.Printf("animation command: %v", err)
			return
		}
		server.mu.Lock()
		server.simSettings = next
		server.mu.Unlock()

	default:
		log.Printf("unknown command %q", cmd.Cmd)
	}
}

// serveIndex serves the main page, executed against the current frame so the
// initial markup matches what updates will patch.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	frame := server.convert(server.controller.Snapshot())
	if err := renderTemplate(w, server.rootView, frame); err != nil {
		log.Println("index render:", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// serveSnapshotSVG writes the current field as a standalone SVG document.
func (server *Server) serveSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	server.mu.RLock()
	display := server.display
	server.mu.RUnlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	render.WriteSVG(w,
		server.controller.Snapshot(), display.Style,
		display.Width, display.Height,
		server.controller.Elapsed())
}

// serveFramePNG renders the current field through the raster backend.
func (server *Server) serveFramePNG(w http.ResponseWriter, r *http.Request) {
	server.mu.RLock()
	display := server.display
	server.mu.RUnlock()

	raster := render.NewRaster(display.Width, display.Height, display.DeviceScale)
	img := raster.Draw(server.controller.Snapshot(), display.Style, server.controller.Elapsed())
	raw, err := render.EncodePNG(img)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(raw)
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
