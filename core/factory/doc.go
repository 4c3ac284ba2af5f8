// Package factory provides a small generic registry used to instantiate
// modules from configuration. A module is described by a type string and a
// map of raw settings; the registered factory decodes the settings into a
// typed struct and returns the concrete implementation.
//
// Catalogue sources and metrics sinks are both built this way:
//
//	catalogue:
//	  type: csv
//	  conf:
//	    path: dish_list.csv
package factory
