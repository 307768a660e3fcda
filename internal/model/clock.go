package model

import (
	"sync"
	"time"
)

// clockNow is swapped out in tests.
var clockNow = time.Now

// Clock tracks one side's remaining thinking time.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = clockNow()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= clockNow().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - clockNow().Sub(c.lastStarted)
	}
	return c.timeLeft
}

// deciseconds is the unit clients display.
func (c *Clock) deciseconds() int {
	return int(c.GetTimeLeft().Milliseconds() / 100)
}
