package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/photonmill/engrave.go/pkg/firmware"
	fx "github.com/photonmill/engrave.go/pkg/framework"
	"github.com/photonmill/engrave.go/pkg/hal"
	"github.com/photonmill/engrave.go/pkg/serialport"
	"github.com/photonmill/engrave.go/pkg/telemetry"
)

var (
	portPath = "/dev/ttyUSB0"
	baudRate = firmware.BaudRate
	mqttURL  = ""
)

func init() {
	if val := os.Getenv("ENGRAVE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&portPath, "port", portPath, "Serial port of the command link.")
	flag.IntVar(&baudRate, "baud", baudRate, "Baud rate of the command link.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for telemetry, empty to disable.")
}

func main() {
	flag.Parse()

	port, err := serialport.Open(portPath, serialport.Options{BaudRate: baudRate})
	if err != nil {
		log.Fatalf("open command link: %v", err)
	}

	pins := hal.RegisteredPins()
	if pins == nil {
		glog.Warning("no pins driver registered, using the simulated backend")
		pins = hal.NewSim()
	}

	dispatcher := firmware.NewDispatcher(port, pins, hal.WallClock{})

	runner := fx.NewRunner().HandleSignals()
	if mqttURL != "" {
		queue, err := telemetry.NewQueue(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		publisher := telemetry.NewPublisher(queue, telemetry.DeviceID())
		dispatcher.Notifier = publisher
		runner.Go(fx.NamedRun("telemetry", publisher))
	}
	runner.Go(fx.NamedRun("dispatch", dispatcher))

	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
