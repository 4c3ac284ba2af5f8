// Package infra contains technical adapters: catalogue sources, the MQTT
// publisher, metrics exporters and the zerolog logger. These packages
// should depend only on the interfaces defined in the core packages.
package infra
