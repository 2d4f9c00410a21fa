package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

var (
	// interruptChannel receives the shutdown signals.
	interruptChannel chan os.Signal

	// addHandlerChannel registers callbacks with the interrupt handler.
	addHandlerChannel = make(chan func())

	// InterruptHandlersDone is closed once every handler has run.
	InterruptHandlersDone = make(chan struct{})

	simulateInterruptChannel = make(chan struct{}, 1)

	// signals are the signals that trigger a clean shutdown. SIGTERM is
	// added on unix.
	signals = []os.Signal{os.Interrupt}

	startOnce sync.Once
)

// SimulateInterrupt starts the shutdown as if SIGINT was received.
func SimulateInterrupt() {
	select {
	case simulateInterruptChannel <- struct{}{}:
	default:
	}
}

// mainInterruptHandler runs the registered callbacks in LIFO order on the
// first interrupt. It must be run as a goroutine.
func mainInterruptHandler() {
	var callbacks []func()
	invokeCallbacks := func() {
		for i := len(callbacks) - 1; i >= 0; i-- {
			callbacks[i]()
		}
		close(InterruptHandlersDone)
	}

	for {
		select {
		case <-interruptChannel:
			invokeCallbacks()
			return
		case <-simulateInterruptChannel:
			invokeCallbacks()
			return
		case handler := <-addHandlerChannel:
			callbacks = append(callbacks, handler)
		}
	}
}

// AddInterruptHandler adds a handler to call on shutdown.
func AddInterruptHandler(handler func()) {
	startOnce.Do(func() {
		interruptChannel = make(chan os.Signal, 1)
		signal.Notify(interruptChannel, signals...)
		go mainInterruptHandler()
	})
	addHandlerChannel <- handler
}

// Context returns a context cancelled on shutdown.
func Context() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	AddInterruptHandler(cancel)
	return ctx
}

// InterruptRequested reports whether the shutdown already ran.
func InterruptRequested() bool {
	select {
	case <-InterruptHandlersDone:
		return true
	default:
	}
	return false
}
