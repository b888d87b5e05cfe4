// Package client implements the tangle node client library consumed by the
// dispatch bridge. It exposes the node REST API (info, tips, messages,
// outputs, addresses, milestones) plus seed-driven high-level operations
// (transfers, balances, unspent address discovery).
//
// A Client is configured with one or more node URLs and performs requests
// against a healthy node; SyncNodes refreshes the healthy set. All methods
// take a context, return explicit errors and suspend only the calling
// goroutine, so many operations may run concurrently against one Client.
package client
