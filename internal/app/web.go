package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/agentbryce2025/emulator/internal/config"
	"github.com/agentbryce2025/emulator/internal/telemetry"
)

var wsUpgrader = websocket.Upgrader{
	// The dashboard is served from the same host, so accept any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RunWeb serves the monitoring dashboard: it subscribes to the
// telemetry topics and re-exposes the latest reading per sensor over a
// JSON API and a websocket stream.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu     sync.RWMutex
		latest = make(map[string]telemetry.Reading)
	)

	// 1) Connect to MQTT broker and subscribe to all sensor topics
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	topic := cfg.TopicPrefix + "/+"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r telemetry.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		latest[r.Sensor] = r
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", topic)

	// 2) JSON API
	r := mux.NewRouter()

	r.HandleFunc("/api/sensors", func(w http.ResponseWriter, _ *http.Request) {
		mu.RLock()
		names := make([]string, 0, len(latest))
		for name := range latest {
			names = append(names, name)
		}
		mu.RUnlock()
		sort.Strings(names)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(names); err != nil {
			log.Printf("json encode error: %v", err)
		}
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/sensors/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := mux.Vars(req)["name"]

		mu.RLock()
		reading, ok := latest[name]
		mu.RUnlock()

		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reading); err != nil {
			log.Printf("json encode error: %v", err)
		}
	}).Methods(http.MethodGet)

	// 3) Websocket stream: push the full snapshot on a fixed cadence
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(time.Duration(cfg.PublishInterval) * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			snapshot := make(map[string]telemetry.Reading, len(latest))
			for name, reading := range latest {
				snapshot[name] = reading
			}
			mu.RUnlock()

			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	})

	// 4) Static files from ./web as the root
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, r))
}
