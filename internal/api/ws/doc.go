// Package ws streams the workspace to WebSocket clients.
//
// A connection first receives {"type":"snapshot"} with the whole workspace,
// then one {"type":"event"} frame per store mutation in sequence order.
// Clients may send {"type":"ping"} (answered with "pong") or
// {"type":"snapshot"} to resynchronise. Frames are encoded with sonic.
// A client whose send buffer fills up is disconnected rather than slowing the store.
package ws
