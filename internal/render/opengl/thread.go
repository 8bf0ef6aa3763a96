package opengl

import "runtime"

// thread runs functions on one goroutine locked to its OS thread. glfw and
// GL contexts are bound to the thread that created them, so every call into
// either goes through here.
type thread struct {
	calls chan func()
	done  chan struct{}
}

func newThread() *thread {
	t := &thread{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *thread) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	for fn := range t.calls {
		fn()
	}
}

// call runs fn on the locked thread and waits for it to return.
func (t *thread) call(fn func() error) error {
	errc := make(chan error, 1)
	t.calls <- func() { errc <- fn() }
	return <-errc
}

// stop drains the queue and waits for the thread to exit.
func (t *thread) stop() {
	close(t.calls)
	<-t.done
}
