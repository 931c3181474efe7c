/*
Package observability turns console lifecycle events into metrics and logs.

Both Metrics.Hooks and LoggingHooks return domain.LifecycleHooks, so they plug into
aria.WithLifecycleHooks and can be combined with domain.Merge.
*/
package observability
