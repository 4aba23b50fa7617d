package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/photonmill/engrave.go/pkg/firmware"
	"github.com/photonmill/engrave.go/pkg/telemetry"
)

//go-build: CGO_ENABLED=0

var (
	mqttURL = "mqtt://localhost:1883/engrave/"
)

func init() {
	if val := os.Getenv("ENGRAVE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	queue, err := telemetry.NewQueue(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := queue.Connect(); err != nil {
		log.Fatalln(err)
	}

	err = queue.Sub("#", telemetry.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		var snapshot firmware.Snapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			log.Printf("%s: bad payload: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, snapshot.String())
	}))
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
