package fastview

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	. "github.com/smartystreets/goconvey/convey"
)

// echoView forwards each view-model it receives as a single ele-update.
type echoView struct {
	updates <-chan []EleUpdate
}

func newEchoView(done <-chan struct{}, vms <-chan string) *echoView {
	return &echoView{
		updates: channerics.Convert(done, vms, func(vm string) []EleUpdate {
			return []EleUpdate{{EleId: vm, Ops: []Op{{Key: "textContent", Value: vm}}}}
		}),
	}
}

func (ev *echoView) Updates() <-chan []EleUpdate { return ev.updates }

func (ev *echoView) Parse(t *template.Template) (string, error) {
	_, err := t.Parse(`{{ define "echo" }}<div id="echo"></div>{{ end }}`)
	return "echo", err
}

func TestViewBuilder(t *testing.T) {
	Convey("When the builder is incompletely configured", t, func() {
		Convey("Building without views fails", func() {
			input := make(chan int)
			_, err := NewViewBuilder[int, string]().
				WithModel(input, strconv.Itoa).
				Build()
			So(err, ShouldEqual, ErrNoViews)
		})

		Convey("Building without a model fails", func() {
			_, err := NewViewBuilder[int, string]().
				WithView(func(done <-chan struct{}, vms <-chan string) ViewComponent {
					return newEchoView(done, vms)
				}).
				Build()
			So(err, ShouldEqual, ErrNoModel)
		})
	})

	Convey("When the builder succeeds", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		input := make(chan int)
		views, err := NewViewBuilder[int, string]().
			WithContext(ctx).
			WithModel(input, strconv.Itoa).
			WithView(func(done <-chan struct{}, vms <-chan string) ViewComponent {
				return newEchoView(done, vms)
			}).
			WithView(func(done <-chan struct{}, vms <-chan string) ViewComponent {
				return newEchoView(done, vms)
			}).
			Build()
		So(err, ShouldBeNil)
		So(len(views), ShouldEqual, 2)

		Convey("Every view receives each converted data model", func() {
			go func() { input <- 42 }()

			for _, view := range views {
				select {
				case updates := <-view.Updates():
					So(len(updates), ShouldEqual, 1)
					So(updates[0].EleId, ShouldEqual, "42")
				case <-time.After(time.Second):
					So("timed out awaiting view update", ShouldBeEmpty)
				}
			}
		})
	})
}

func TestClientTeardown(t *testing.T) {
	Convey("When a page disconnects mid ping-pong", t, func() {
		updates := make(chan []EleUpdate)
		syncDone := make(chan error, 1)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cli, err := NewClient(updates, nil, w, r)
			if err != nil {
				syncDone <- err
				return
			}
			defer cli.Close()
			syncDone <- cli.Sync()
		}))
		defer srv.Close()

		conn, _, err := websocket.DefaultDialer.Dial(
			"ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		So(err, ShouldBeNil)

		// Pump reads so ping control frames are answered with pongs.
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// Let a few ping-pong rounds complete, then hang up abruptly. Pongs
		// arriving during teardown must be ignored, not crash the pumps.
		time.Sleep(3 * pingResolution)
		conn.Close()

		Convey("The pumps tear down cleanly", func() {
			select {
			case <-syncDone:
			case <-time.After(2 * time.Second):
				So("timed out awaiting sync teardown", ShouldBeEmpty)
			}
			<-readerDone
		})
	})
}
