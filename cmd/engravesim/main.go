package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"

	"github.com/golang/glog"

	"github.com/photonmill/engrave.go/pkg/firmware"
	fx "github.com/photonmill/engrave.go/pkg/framework"
	"github.com/photonmill/engrave.go/pkg/hal"
	"github.com/photonmill/engrave.go/pkg/telemetry"
)

var (
	listenAddr = ":9600"
	useStdio   = false
	fastSteps  = false
	mqttURL    = ""
)

func init() {
	if val := os.Getenv("ENGRAVE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&listenAddr, "listen", listenAddr, "TCP address to serve the command link on.")
	flag.BoolVar(&useStdio, "stdio", useStdio, "Serve a single session on stdin/stdout instead of TCP.")
	flag.BoolVar(&fastSteps, "fast", fastSteps, "Skip inter-step pacing delays.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for telemetry, empty to disable.")
}

// server accepts one command link at a time. Each connection behaves
// like a freshly power-cycled device: new simulated pins, state at the
// power-on defaults.
type server struct {
	listener net.Listener
	clock    hal.Clock
	notifier firmware.StateNotifier
}

func (s *server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.listener, func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return err
			}
			s.serve(ctx, conn)
		}
	})
}

func (s *server) serve(ctx context.Context, conn net.Conn) {
	glog.Infof("session from %v", conn.RemoteAddr())
	dispatcher := firmware.NewDispatcher(conn, hal.NewSim(), s.clock)
	dispatcher.Notifier = s.notifier
	if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
		glog.Warningf("session from %v: %v", conn.RemoteAddr(), err)
		return
	}
	glog.Infof("session from %v ended", conn.RemoteAddr())
}

// stdioPipe joins stdin and stdout into one byte transport.
type stdioPipe struct {
	io.Reader
	io.Writer
}

func main() {
	flag.Parse()

	clock := hal.Clock(hal.WallClock{})
	if fastSteps {
		clock = hal.NopClock{}
	}

	var device fx.Runnable
	srv := &server{clock: clock}
	if useStdio {
		device = fx.RunFunc(func(ctx context.Context) error {
			dispatcher := firmware.NewDispatcher(stdioPipe{Reader: os.Stdin, Writer: os.Stdout}, hal.NewSim(), clock)
			dispatcher.Notifier = srv.notifier
			return dispatcher.Run(ctx)
		})
	} else {
		listener, err := net.Listen("tcp", listenAddr)
		if err != nil {
			log.Fatalln(err)
		}
		glog.Infof("serving command link on %v", listener.Addr())
		srv.listener = listener
		device = srv
	}

	runner := fx.NewRunner().HandleSignals()
	if mqttURL != "" {
		queue, err := telemetry.NewQueue(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		publisher := telemetry.NewPublisher(queue, telemetry.DeviceID())
		srv.notifier = publisher
		runner.Go(fx.NamedRun("telemetry", publisher))
	}
	runner.Go(fx.NamedRun("serve", device))

	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
