package crawler

import (
	"github.com/antigloss/go/concurrent/container/queue"
)

// frontier is the FIFO of the commands that are decided but not yet handed to a worker.
//
// The head is kept out of the queue so that the supervisor can offer it in a select without losing it.
type frontier struct {
	queue *queue.LockfreeQueue
	head  *Command
	size  int
}

func newFrontier() *frontier {
	return &frontier{
		queue: queue.NewLockfreeQueue(),
	}
}

// Push appends a command to the frontier.
func (f *frontier) Push(cmd Command) {
	f.size++

	if f.head == nil {
		f.head = &cmd

		return
	}

	f.queue.Push(cmd)
}

// Peek returns the next command without removing it.
func (f *frontier) Peek() (Command, bool) {
	if f.head == nil {
		return Command{}, false
	}

	return *f.head, true
}

// Pop removes the next command.
func (f *frontier) Pop() {
	if f.head == nil {
		return
	}

	f.size--
	f.head = nil

	if v := f.queue.Pop(); v != nil {
		cmd := v.(Command) // nolint: forcetypeassert // Only commands are pushed.
		f.head = &cmd
	}
}

// Len returns the number of commands in the frontier.
func (f *frontier) Len() int {
	return f.size
}
