// Package cms provides the public types, interfaces, and request builders
// for the Meridian content delivery API client.
//
// Callers configure a cms.Config, construct a client through
// pkg/cmsclient, and reach individual services (items, taxonomies,
// assets, publishing) through the Client interface. Each service verb is
// available in three equivalent invocation styles: a blocking
// context-aware call, an Async variant returning a result channel, and a
// Callback variant. Exactly one style should be used per logical
// operation.
package cms
