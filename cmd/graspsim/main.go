// graspsim drives scripted grasp episodes against an in-memory scene
// and records every attach/release into a SQLite database for later
// reporting. One episode runs per selection mode unless -mode narrows
// it to a single one.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/config"
	"github.com/helix-robotics/graspcore/internal/grasp"
	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/monitoring"
	"github.com/helix-robotics/graspcore/internal/sim"
	"github.com/helix-robotics/graspcore/internal/sim/simtest"
	storage "github.com/helix-robotics/graspcore/internal/storage/sqlite"
	"github.com/helix-robotics/graspcore/internal/version"
)

const stepDT = 1.0 / 30

func main() {
	dbPath := flag.String("db", "grasp_events.db", "Path to the SQLite event database")
	configPath := flag.String("config", "", "Optional tuning config JSON (defaults apply when empty)")
	modeFlag := flag.String("mode", "", "Run a single mode: proximity, suction or gaze (default runs all)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("loading tuning config: %v", err)
		}
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("opening event database: %v", err)
	}
	defer db.Close()
	store := storage.NewEventStore(db.DB)

	modes := []string{"proximity", "suction", "gaze"}
	if *modeFlag != "" {
		modes = []string{*modeFlag}
	}

	for _, mode := range modes {
		episodeID := uuid.New().String()
		if err := runEpisode(mode, cfg, store, episodeID); err != nil {
			fmt.Fprintf(os.Stderr, "episode %s (%s): %v\n", episodeID, mode, err)
			os.Exit(1)
		}
		fmt.Printf("episode %s (%s) complete\n", episodeID, mode)
	}

	printSummary(store)
}

// runEpisode builds a scene suited to the mode, then drives the manager
// through a close / hold / open command script.
func runEpisode(mode string, base *config.TuningConfig, store *storage.EventStore, episodeID string) error {
	cfg := *base
	cfg.Mode = &mode
	if err := cfg.Validate(); err != nil {
		return err
	}

	fake, robot := buildScene(mode, &cfg)

	selector, err := grasp.SelectorFromTuning(&cfg, fake, robot)
	if err != nil {
		return err
	}
	manager := grasp.NewManager(fake, robot, selector, storage.NewRecorder(store, episodeID))

	for _, cmd := range []float64{1, 1, -1} {
		c := cmd
		if err := manager.ApplyGripCommand(&c); err != nil {
			return err
		}
		if err := fake.Step(stepDT); err != nil {
			return err
		}
	}
	return nil
}

func buildScene(mode string, cfg *config.TuningConfig) (*simtest.Sim, *simtest.Robot) {
	robot := &simtest.Robot{
		RobotID:   100,
		RobotKind: "spot",
		Links:     []sim.LinkID{7, 8},
		EE:        geom.Identity(),
		LinkT:     geom.Identity(),
	}

	fake := simtest.New()
	switch mode {
	case "suction":
		// Mug resting against the gripper, bowl out of contact.
		fake.AddObjectAt(1, r3.Vec{X: 0.02})
		fake.AddObjectAt(2, r3.Vec{X: 0.6})
		fake.ContactList = []sim.Contact{{
			ObjectA: robot.RobotID, LinkA: 7,
			ObjectB: 1, LinkB: 0,
			Position: r3.Vec{X: 0.01},
		}}
	case "gaze":
		// Mug ahead of the camera, bowl beyond the distance band.
		fake.AddObjectAt(1, r3.Vec{X: 1.2})
		fake.AddObjectAt(2, r3.Vec{X: 8})
		fake.Cameras["articulated_agent_arm_rgb"] = geom.Identity()
		fake.RenderFunc = demoRenderer(fake, cfg.GetSinkY())
	default:
		// Mug within reach, bowl past the proximity threshold.
		fake.AddObjectAt(1, r3.Vec{X: 0.08})
		fake.AddObjectAt(2, r3.Vec{X: 0.5})
	}
	return fake, robot
}

// demoRenderer produces a 64x64 depth image with a centred block for
// every object still in the scene. Blocks overlap, so each pixel keeps
// the nearest object's depth (zero is empty background); sinking the
// near object therefore exposes the one behind it and the diff mask is
// non-empty.
func demoRenderer(fake *simtest.Sim, sinkY float64) func(string) (*mat.Dense, error) {
	return func(string) (*mat.Dense, error) {
		img := mat.NewDense(64, 64, nil)
		for _, id := range fake.SceneObjectIDs() {
			tr, err := fake.ObjectTransform(id)
			if err != nil {
				return nil, err
			}
			if tr.Translation().Y <= sinkY/2 {
				continue // displaced out of view
			}
			depth := geom.Dist(tr.Translation(), r3.Vec{})
			for i := 24; i < 40; i++ {
				for j := 24; j < 40; j++ {
					if cur := img.At(i, j); cur == 0 || depth < cur {
						img.Set(i, j, depth)
					}
				}
			}
		}
		return img, nil
	}
}

func printSummary(store *storage.EventStore) {
	summary, err := store.SummarizeByMode()
	if err != nil {
		log.Fatalf("summarizing events: %v", err)
	}
	fmt.Println("mode,grasps,avg_distance_m")
	for _, m := range summary {
		fmt.Printf("%s,%d,%.3f\n", m.Mode, m.Grasps, m.AvgDistance)
	}
	for name, v := range monitoring.Snapshot() {
		fmt.Printf("counter %s=%d\n", name, v)
	}
}
