// Package async provides a guarded alternative to bare goroutines for
// fire-and-forget work spawned from request handlers.
package async

import (
	"context"
	"log"
	"runtime/debug"
	"time"
)

// SafeGo runs fn in a goroutine with panic recovery, a timeout, and error
// logging. The context is detached from the parent's cancellation so the
// work survives the request that spawned it; only its values carry over.
func SafeGo(parentCtx context.Context, timeout time.Duration, taskName string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parentCtx), timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("[async] panic in %s: %v\n%s", taskName, r, debug.Stack())
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("[async] %s: %v", taskName, err)
		}
	}()
}
