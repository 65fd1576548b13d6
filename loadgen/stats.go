package loadgen

import (
	"sort"
	"sync"
	"time"

	"github.com/dbogatov/fabric-voter/tally"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// timedTransactor forwards to the real contract and records how long
// each phase of a vote takes: the scan is the evaluate call, the
// commit is the submit call. Failed calls are not recorded.
type timedTransactor struct {
	contract tally.Transactor
	timings  *recorder
}

func (t *timedTransactor) Evaluate(fn string, args ...string) ([]byte, error) {

	start := time.Now()
	payload, e := t.contract.Evaluate(fn, args...)
	if e == nil {
		t.timings.recordScan(time.Since(start))
	}

	return payload, e
}

func (t *timedTransactor) Submit(fn string, args ...string) ([]byte, error) {

	start := time.Now()
	payload, e := t.contract.Submit(fn, args...)
	if e == nil {
		t.timings.recordCommit(time.Since(start))
	}

	return payload, e
}

type recorder struct {
	lock    sync.Mutex
	scans   []float64 // milliseconds
	commits []float64
	votes   []float64
}

func (r *recorder) recordScan(elapsed time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.scans = append(r.scans, elapsed.Seconds()*1000)
}

func (r *recorder) recordCommit(elapsed time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.commits = append(r.commits, elapsed.Seconds()*1000)
}

func (r *recorder) recordVote(elapsed time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.votes = append(r.votes, elapsed.Seconds()*1000)
}

func (r *recorder) report() {

	r.lock.Lock()
	defer r.lock.Unlock()

	logger.Critical("Latencies in ms:")

	printTimings := func(description string, samples []float64) {
		if len(samples) == 0 {
			return
		}

		sort.Float64s(samples)

		logger.Criticalf(
			"%10s : %4d samples : min %6.1f, max %6.1f, mean %6.1f, median %6.1f, p95 %6.1f",
			description,
			len(samples),
			floats.Min(samples),
			floats.Max(samples),
			stat.Mean(samples, nil),
			stat.Quantile(0.5, stat.Empirical, samples, nil),
			stat.Quantile(0.95, stat.Empirical, samples, nil),
		)
	}

	printTimings("scan", r.scans)
	printTimings("commit", r.commits)
	printTimings("vote", r.votes)
}
