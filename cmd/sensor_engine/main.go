// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/agentbryce2025/emulator/internal/app"
	"github.com/agentbryce2025/emulator/internal/config"
)

func main() {
	configPath := flag.String("config", "./engine_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting emulator sensor engine (synthetic sensors → MQTT/Kafka)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunEngine(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
