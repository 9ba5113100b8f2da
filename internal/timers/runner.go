package timers

import "time"

// Runner drives a function on a fixed interval until stopped. Sessions use
// one runner per mounted session to tick their Tracker every second.
type Runner struct {
	ticker *time.Ticker
	done   chan struct{}
}

func StartRunner(interval time.Duration, fn func()) *Runner {
	r := &Runner{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-r.done:
				return
			case <-r.ticker.C:
				fn()
			}
		}
	}()

	return r
}

// Stop halts the runner. Safe to call more than once.
func (r *Runner) Stop() {
	r.ticker.Stop()
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}
