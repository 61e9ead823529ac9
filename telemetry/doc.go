// Package telemetry exposes the volume controller to an external
// vehicle-bus gateway over WebSocket.
//
// A gateway connects to the bridge endpoint and streams JSON telemetry
// snapshots; for each snapshot the bridge updates the controller, lets
// the displayed volume settle, and answers with one state frame followed
// by the event notices the update produced. The core volume logic stays
// free of any network concern; the bridge is a consumer of the
// autovolume facade like any other renderer.
package telemetry
