// cmd/director/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
	"wave-director/internal/app"
	"wave-director/internal/clock"
	"wave-director/internal/config"
	"wave-director/internal/defs"
	"wave-director/internal/observability"
	"wave-director/internal/state"
	"wave-director/internal/system"
	"wave-director/internal/utils"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/image/font/basicfont"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func formationPolicy(name string, rng utils.RandomSource) (system.FormationPolicy, error) {
	switch name {
	case "", "wave":
		return system.WaveIndexedPolicy{}, nil
	case "roundrobin":
		return system.RoundRobinPolicy{}, nil
	case "weighted":
		return system.WeightedPolicy{Rng: rng}, nil
	}
	return nil, fmt.Errorf("unknown formation policy %q", name)
}

func main() {
	seed := flag.Int64("seed", 0, "PRNG seed, 0 picks one from the clock")
	catalogPath := flag.String("catalog", "", "JSON event catalog, built-in events when empty")
	metricsAddr := flag.String("metrics", config.MetricsAddr, "Prometheus listen address, empty disables")
	formation := flag.String("formation", "wave", "formation policy: wave, roundrobin, weighted")
	snapshotPath := flag.String("snapshot", config.SnapshotFile, "file used by save and load")
	flag.Parse()

	catalog := defs.DefaultEventCatalog
	if *catalogPath != "" {
		loaded, err := defs.LoadEventCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load event catalog: %v", err)
		}
		catalog = loaded
	}

	rng := utils.NewPRNGService(*seed)
	log.Printf("Wave director seed: %d", rng.Seed())
	policy, err := formationPolicy(*formation, rng)
	if err != nil {
		log.Fatal(err)
	}

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = observability.NewMetrics("", reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler(reg))
		go func() {
			log.Println(http.ListenAndServe(*metricsAddr, mux))
		}()
	}

	clk := clock.NewTimeProvider()
	director := app.NewDirector(app.Options{
		Catalog:         catalog,
		Clock:           clk,
		Rng:             rng,
		FormationPolicy: policy,
		Metrics:         metrics,
	})

	sm := state.NewStateMachine()
	ds := state.NewDirectorState(sm, director, clk, basicfont.Face7x13)
	ds.SetSnapshotPath(*snapshotPath)
	sm.SetState(ds)

	game := &AppGame{
		stateMachine:   sm,
		lastUpdateTime: time.Now(),
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Wave Director")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
