package utils

import "time"

// IntervalTimer runs a function on a fixed interval until stopped.
type IntervalTimer interface {
	Stop()
}

type intervalTimer struct {
	quit chan<- struct{}
}

func (t *intervalTimer) Stop() {
	t.quit <- struct{}{}
}

func SetIntervalTimer(interval time.Duration, fn func()) IntervalTimer {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-quit:
				ticker.Stop()
				return
			}
		}
	}()
	return &intervalTimer{quit: quit}
}
