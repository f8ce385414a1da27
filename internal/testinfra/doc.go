// Package testinfra starts throwaway PostGIS containers for integration tests.
//
// Every file is guarded by the integration build tag:
//
//	go test -tags integration ./...
//
// Tests skip themselves when no Docker daemon is reachable.
package testinfra
