/*
Package workspace manages the set of graphs open in an editing session.

The Manager owns zero or more NodeGraph instances keyed by GraphID and
tracks which one is active. It is constructed explicitly and passed to
whoever owns the session; there is no global instance, so tests can run
multiple independent managers in-process.
*/
package workspace
