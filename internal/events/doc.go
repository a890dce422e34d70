// Package events turns service lifecycle edges into events.
//
// It provides:
//
//   - Bus: an in-process publish/subscribe hub with a bounded history, used
//     by the event service and by lifecycle watchers
//   - MessageTemplateEngine: reason specific message templates rendered with
//     text/template and the sprig function library
//   - EventGenerator: registers hooks on every service of a container and
//     publishes an Event for each lifecycle edge and callback failure
//
// Usage:
//
//	bus := events.NewBus(0)
//	bus.Subscribe("lifecycle/*", func(e events.Event) {
//		fmt.Println(e.Message)
//	})
//	if _, err := events.WatchContainer(container, bus); err != nil {
//		return err
//	}
//
// Lifecycle events are published on "lifecycle/<Reason>", for example
// "lifecycle/ServiceConnected". Failure reasons and lost connections carry
// EventTypeWarning.
package events
