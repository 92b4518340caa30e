// Package handle provides non-owning references to shared services.
//
// An Owner wraps a value and hands out Refs that do not keep the value
// alive past the owner's lifetime. Once the owner calls Release, every
// Ref observes the absence and Get returns false. Consumers are expected
// to treat a failed Get as a recoverable, loggable condition rather than
// a fatal error.
//
// Basic usage:
//
//	owner := handle.NewOwner(store)
//	ref := owner.Ref()
//
//	if store, ok := ref.Get(); ok {
//	    store.Save(ctx, msg)
//	} else {
//	    logger.Warn("message store released, skipping")
//	}
//
//	// When the owning component shuts down:
//	owner.Release()
//
// A nil *Ref is safe to use: Get returns the zero value and false. This
// makes optional collaborators (a streaming notifier, a tool router)
// ergonomic to pass around without nil checks at every call site.
package handle
