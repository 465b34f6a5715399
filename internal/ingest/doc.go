// Package ingest wires the attachment pipeline together: it stages dropped
// files at a provisional location, correlates them with the note edit that
// references them, and performs the final rename and embed rewrite.
//
// The Pipeline receives every collaborator at construction (vault, queue,
// compressor, notifier, history store) so event sequences can be simulated
// deterministically in tests.
package ingest
