package queue

// Pause stops new transfers from starting. In-flight transfers continue to
// completion.
func (q *uploadQueue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paused = true
}

// Resume re-enables transfers and immediately fills free slots
func (q *uploadQueue) Resume() {
	q.mu.Lock()
	q.paused = false
	q.processLocked()
	q.mu.Unlock()
}

// IsPaused reports the pause state
func (q *uploadQueue) IsPaused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}
