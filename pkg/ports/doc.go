/*
Package ports defines the interfaces between the Bramble core and its
adapters, following Hexagonal Architecture principles.

The core never touches storage directly: graph persistence goes through the
GraphStore port, with file, redis and in-memory adapters provided under
pkg/adapters and internal/adapters.
*/
package ports
