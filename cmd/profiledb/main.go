// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/agentbryce2025/emulator/internal/profiledb"
	"github.com/agentbryce2025/emulator/internal/sensor"
)

const usage = `usage: profiledb [-db path] <command> [args]

commands:
  list                                   list stored sensor profiles
  show <name>                            print a sensor profile as JSON
  create <name> <device> <activity> <position>
                                         build a profile and store it
  delete <name>                          remove a sensor profile
  seed                                   seed the default device catalog
  import <catalog.yaml>                  import device profiles from YAML
  devices [manufacturer]                 list manufacturers or their devices
  random [android-version]               pick a random device identity
  buildprop <manufacturer> <device> <android-version>
                                         render build.prop for a device
`

func main() {
	dbPath := flag.String("db", "profiles.db", "path to the profile database")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := profiledb.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open profile store: %v", err)
	}
	defer store.Close()

	if err := run(store, args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(store *profiledb.Store, args []string) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		names, err := store.ListSensorProfiles()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil

	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("show takes exactly one profile name")
		}
		p, err := store.LoadSensorProfile(rest[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "create":
		if len(rest) != 4 {
			return fmt.Errorf("create takes <name> <device> <activity> <position>")
		}
		p := sensor.NewDeviceProfile(rest[1], rest[2], rest[3], false)
		if err := store.SaveSensorProfile(rest[0], p); err != nil {
			return err
		}
		fmt.Printf("stored profile %q\n", rest[0])
		return nil

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete takes exactly one profile name")
		}
		return store.DeleteSensorProfile(rest[0])

	case "seed":
		if err := store.SeedDefaults(); err != nil {
			return err
		}
		fmt.Println("seeded default device catalog")
		return nil

	case "import":
		if len(rest) != 1 {
			return fmt.Errorf("import takes exactly one catalog file")
		}
		n, err := store.ImportCatalog(rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("imported %d device profiles\n", n)
		return nil

	case "devices":
		if len(rest) == 0 {
			manufacturers, err := store.Manufacturers()
			if err != nil {
				return err
			}
			for _, m := range manufacturers {
				fmt.Println(m)
			}
			return nil
		}
		devices, err := store.Devices(rest[0])
		if err != nil {
			return err
		}
		for _, d := range devices {
			fmt.Println(d)
		}
		return nil

	case "random":
		version := ""
		if len(rest) > 0 {
			version = rest[0]
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		dp, err := store.RandomDeviceProfile(rng, version)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(dp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "buildprop":
		if len(rest) != 3 {
			return fmt.Errorf("buildprop takes <manufacturer> <device> <android-version>")
		}
		dp, err := store.GetDeviceProfile(rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Print(dp.BuildProp())
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
