package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/tacticalcombat/internal/config"
	"github.com/freeeve/tacticalcombat/internal/logx"
	"github.com/freeeve/tacticalcombat/internal/service"
	"github.com/freeeve/tacticalcombat/pkg/combat"
)

func main() {
	var (
		matchup    string
		weaponA    string
		weaponB    string
		numBattles int
		workers    int
		maxRounds  int
		seed       int64
		jsonOut    bool
	)

	flag.StringVar(&matchup, "matchup", "tactical-vs-tactical", "Strategy matchup (e.g. hard-vs-hold, tactical-vs-random)")
	flag.StringVar(&weaponA, "weapon-a", "sword", "Fighter A weapon (sword|greatsword)")
	flag.StringVar(&weaponB, "weapon-b", "sword", "Fighter B weapon (sword|greatsword)")
	flag.IntVar(&numBattles, "n", 1, "Number of battles to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel battles)")
	flag.IntVar(&maxRounds, "max-rounds", 50, "Max rounds before draw")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")

	flag.Parse()

	cfg := config.Load()
	logx.Init(cfg.LogLevel, cfg.LogFile)
	diffA, diffB := parseMatchup(matchup)
	label := fmt.Sprintf("%s vs %s", diffA, diffB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	results := make([]*service.ArenaResult, numBattles)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numBattles; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			battleSeed := seed
			if seed != 0 {
				battleSeed = seed + int64(idx)
			}

			acfg := service.ArenaConfig{
				Label:             fmt.Sprintf("%s-%d", label, idx+1),
				FighterA:          service.DefaultFighter(diffA, weaponURN(weaponA), 140, +1),
				FighterB:          service.DefaultFighter(diffB, weaponURN(weaponB), 160, -1),
				MaxRounds:         maxRounds,
				Seed:              battleSeed,
				BattlefieldLength: cfg.BattlefieldLength,
				NeuralModelPath:   cfg.NeuralModelPath,
				Search:            cfg.Search(),
			}

			result, err := service.RunBattle(ctx, acfg)
			if err != nil {
				log.Error().Err(err).Int("battle", idx+1).Msg("Battle failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("battle", idx+1).Str("winner", result.Winner).Int("rounds", result.Rounds).Msg("Battle completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numBattles, errCount)
	} else {
		printSummary(results, label, maxRounds, errCount)
	}
}

// parseMatchup splits "hard-vs-hold" style strings; a bare difficulty
// plays a mirror match.
func parseMatchup(s string) (a, b string) {
	parts := strings.SplitN(s, "-vs-", 2)
	if len(parts) != 2 {
		return s, s
	}
	return parts[0], parts[1]
}

func weaponURN(name string) combat.SchemaUrn {
	if name == "greatsword" {
		return service.Greatsword.URN
	}
	return service.ArmingSword.URN
}

func printSummary(results []*service.ArenaResult, label string, maxRounds, errCount int) {
	winsA, winsB, draws, completed := 0, 0, 0, 0
	totalRounds, totalErrors := 0, 0
	planMS := 0.0
	planned := 0

	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		totalRounds += r.Rounds
		totalErrors += r.CommandErrors
		if r.PlanCalls > 0 {
			planMS += r.AvgPlanMS
			planned++
		}
		switch r.Winner {
		case "A":
			winsA++
		case "B":
			winsB++
		default:
			draws++
		}
	}

	fmt.Printf("\nResults (%s, %d battles, max %d rounds):\n", label, completed, maxRounds)
	if errCount > 0 {
		fmt.Printf("  (%d battles failed)\n", errCount)
	}
	fmt.Printf("  A: %d wins   B: %d wins   draws: %d\n", winsA, winsB, draws)
	if completed > 0 {
		fmt.Printf("  avg rounds: %.1f   command errors: %d\n", float64(totalRounds)/float64(completed), totalErrors)
	}
	if planned > 0 {
		fmt.Printf("  avg planning latency: %.2f ms\n", planMS/float64(planned))
	}
}

func printJSON(results []*service.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                    `json:"total"`
		Errors  int                    `json:"errors"`
		Results []*service.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
