package loadgen

import (
	"context"
	"time"

	"github.com/dbogatov/fabric-voter/helpers"
	"github.com/dbogatov/fabric-voter/tally"
	exprand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generator drives repeated votes against a live ledger to observe
// per-phase transaction latency under load. Because votes for the
// same candidate race on the scan-then-write path, a run with a small
// candidate pool also makes the lost-update behavior observable.
type Generator struct {
	engine      *tally.Engine
	timings     *recorder
	candidates  []string
	concurrency int
	frequency   int // mean seconds between votes, 0 = full speed
	poisson     distuv.Poisson
}

// MakeGenerator wraps the contract with phase timing and builds a
// tally engine over it. frequency is the mean think time in seconds
// between votes; zero disables think time entirely.
func MakeGenerator(contract tally.Transactor, candidates []string, concurrency, frequency int) (generator *Generator) {

	timings := &recorder{}

	// an empty pool gets random candidate names, so every run still
	// exercises both the create and the increment paths
	if len(candidates) == 0 {
		prg := helpers.NewRand()
		for i := 0; i < 3; i++ {
			candidates = append(candidates, helpers.RandomString(prg, 8))
		}
	}

	generator = &Generator{
		engine:      tally.MakeEngine(&timedTransactor{contract: contract, timings: timings}),
		timings:     timings,
		candidates:  candidates,
		concurrency: concurrency,
		frequency:   frequency,
	}

	if frequency > 0 {
		generator.poisson = distuv.Poisson{
			Lambda: 3600.0 / float64(frequency),
			Src:    exprand.NewSource(uint64(time.Now().UnixNano())),
		}
	}

	return
}

// Run casts the given number of votes for candidates drawn at random
// from the pool, with at most concurrency votes in flight and Poisson
// inter-arrival sleeps when a frequency is set. The first failed vote
// stops admission of new ones and its error is returned; there are no
// retries. On success the latency report is printed.
func (generator *Generator) Run(votes int) error {

	prg := helpers.NewRand()
	group, ctx := errgroup.WithContext(context.Background())
	sem := semaphore.NewWeighted(int64(generator.concurrency))

	logger.Noticef("Starting... (%d votes, %d concurrent, %d candidates)", votes, generator.concurrency, len(generator.candidates))
	start := time.Now()

	for i := 0; i < votes; i++ {

		if generator.frequency > 0 && i > 0 {
			sleep := time.Duration((3600.0/generator.poisson.Rand())*1000) * time.Millisecond
			logger.Debugf("next vote in %d ms", sleep.Milliseconds())
			time.Sleep(sleep)
		}

		// fails only once a vote has already failed
		if e := sem.Acquire(ctx, 1); e != nil {
			break
		}

		candidate := generator.candidates[int(helpers.RandomULong(prg)%uint64(len(generator.candidates)))]

		group.Go(func() error {
			defer sem.Release(1)

			voteStart := time.Now()
			result, e := generator.engine.Vote(candidate)
			if e != nil {
				return e
			}
			generator.timings.recordVote(time.Since(voteStart))

			logger.Debugf("%s now at %s votes (asset %s)", result.Candidate, result.Count, result.AssetID)
			return nil
		})
	}

	if e := group.Wait(); e != nil {
		return e
	}

	elapsed := time.Since(start)
	logger.Noticef("%d votes completed in %d ms (%.1f votes per second)", votes, elapsed.Milliseconds(), float64(votes)/elapsed.Seconds())

	generator.timings.report()

	return nil
}
