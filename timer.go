package nexuslog

import "time"

// TimerSet holds all timers used in processLogs
type TimerSet struct {
	flushTicker     *time.Ticker
	heartbeatTicker *time.Ticker
	heartbeatChan   <-chan time.Time
}

// setupProcessingTimers creates and configures all necessary timers for the writer
func (e *Engine) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}

	flushInterval := time.Duration(e.cfg.FlushIntervalMs) * time.Millisecond
	if flushInterval < minWaitTime {
		flushInterval = minWaitTime
	}
	timers.flushTicker = time.NewTicker(flushInterval)

	timers.heartbeatChan = e.setupHeartbeatTimer(timers)

	return timers
}

// closeProcessingTimers stops all active timers
func (e *Engine) closeProcessingTimers(timers *TimerSet) {
	timers.flushTicker.Stop()
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// setupHeartbeatTimer configures the heartbeat timer if enabled
func (e *Engine) setupHeartbeatTimer(timers *TimerSet) <-chan time.Time {
	intervalS := e.cfg.HeartbeatIntervalS
	if intervalS <= 0 {
		return nil
	}
	timers.heartbeatTicker = time.NewTicker(time.Duration(intervalS) * time.Second)
	return timers.heartbeatTicker.C
}

// retryDelay returns the backoff before retry attempt n (0 based)
func (e *Engine) retryDelay(n int64) time.Duration {
	delay := time.Duration(e.cfg.RetryBackoffMs) * time.Millisecond
	for i := int64(0); i < n && delay < maxRetryBackoff; i++ {
		delay *= 2
	}
	if delay > maxRetryBackoff {
		delay = maxRetryBackoff
	}
	return delay
}
