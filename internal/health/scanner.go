package health

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
	"github.com/yourorg/chain-migration-analyzer/internal/validation"
)

// ScanOptions tunes the declining-chain scan
type ScanOptions struct {
	// TopN limits the scan to the N largest chains by TVL
	TopN int

	// Workers is the number of concurrent history fetches
	Workers int

	// FetchesPerSec paces upstream history requests across all workers
	FetchesPerSec float64

	// DeclinePct is the 30-day change below which a chain counts as
	// declining, e.g. -10 for a 10% drop
	DeclinePct float64
}

// DefaultScanOptions returns the standard scan configuration
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		TopN:          50,
		Workers:       4,
		FetchesPerSec: 5.0,
		DeclinePct:    -10.0,
	}
}

// DecliningChain is one scan hit
type DecliningChain struct {
	Chain           string  `json:"chain"`
	TVL             float64 `json:"tvl"`
	TVLFormatted    string  `json:"tvl_formatted"`
	TVLChange30dPct float64 `json:"tvl_change_30d_pct"`
	Trend           string  `json:"tvl_trend"`
}

// ScanResult is the outcome of a declining-chain scan. Failures maps chain
// name to the reason its history could not be evaluated; a partial scan is
// still a valid result.
type ScanResult struct {
	Scanned      int               `json:"chains_scanned"`
	ThresholdPct float64           `json:"threshold_pct"`
	Declining    []DecliningChain  `json:"declining_chains"`
	Failures     map[string]string `json:"failures,omitempty"`
}

// ScanDeclining evaluates the 30-day trend of the largest chains and
// returns those whose TVL dropped past the threshold, worst first. History
// fetches run on a bounded worker pool paced by a shared rate limiter;
// canceling ctx stops the scan.
func (a *Analyzer) ScanDeclining(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	if opts.TopN <= 0 {
		opts.TopN = 50
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.FetchesPerSec <= 0 {
		opts.FetchesPerSec = 5.0
	}

	chains, err := a.provider.AllChains(ctx)
	if err != nil {
		return nil, err
	}
	chains = validation.FilterSnapshots(chains)

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].TVL > chains[j].TVL
	})
	if len(chains) > opts.TopN {
		chains = chains[:opts.TopN]
	}

	limiter := rate.NewLimiter(rate.Limit(opts.FetchesPerSec), 1)
	jobs := make(chan model.ChainSnapshot)

	var mu sync.Mutex
	declining := []DecliningChain{}
	failures := make(map[string]string)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snapshot := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				history, err := a.provider.HistoricalTVL(ctx, snapshot.Name)
				if err != nil {
					mu.Lock()
					failures[snapshot.Name] = err.Error()
					mu.Unlock()
					continue
				}
				pct, trend := TrendFromHistory(validation.SanitizeHistory(history))
				if trend == model.TrendUnknown || pct > opts.DeclinePct {
					continue
				}
				mu.Lock()
				declining = append(declining, DecliningChain{
					Chain:           snapshot.Name,
					TVL:             snapshot.TVL,
					TVLFormatted:    FormatTVL(snapshot.TVL),
					TVLChange30dPct: pct,
					Trend:           trend,
				})
				mu.Unlock()
			}
		}()
	}

feed:
	for _, snapshot := range chains {
		select {
		case jobs <- snapshot:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Worst decline first; names break ties so output is deterministic
	sort.Slice(declining, func(i, j int) bool {
		if declining[i].TVLChange30dPct != declining[j].TVLChange30dPct {
			return declining[i].TVLChange30dPct < declining[j].TVLChange30dPct
		}
		return declining[i].Chain < declining[j].Chain
	})

	if len(failures) > 0 {
		logrus.Warnf("Decline scan skipped %d chains due to fetch failures", len(failures))
	}

	result := &ScanResult{
		Scanned:      len(chains),
		ThresholdPct: opts.DeclinePct,
		Declining:    declining,
	}
	if len(failures) > 0 {
		result.Failures = failures
	}
	return result, nil
}
