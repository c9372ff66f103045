// Package logging writes leveled, per-category entries to one shared log file.
//
// # Usage
//
//	sink, err := logging.Open(settings, logging.Options{})
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
//	log := sink.Logger("plugins")
//	log.WriteLine("starting")
//	defer log.NewBlock("loading plugins").Close()
//
// # File Layout
//
// Entries are appended to <logs_path>/0000current.REL.log (0000current.DBG.log
// when built with the debug tag). When Open finds a current file created on
// an earlier day it is renamed to <yyyyMMddHHmmss>.<n>.REL.log first, n being
// the lowest number not already taken.
//
// Each line looks like
//
//	[14:03:27][INFO   ][plugins ] starting
//	[14:03:27][INFO   ][plugins ] 1A2B3C4D << loading plugins
//	[14:03:28][INFO   ][plugins ] 1A2B3C4D >> done with loading plugins
//
// The category column is as wide as the longest category registered so far.
// It never shrinks, and lines already written are not re-padded.
//
// # Locking
//
// A Logger locks its own render buffer, then the Sink's writer. The order is
// never reversed.
package logging
