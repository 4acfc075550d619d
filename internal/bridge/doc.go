// Package bridge serves the loopback HTTP endpoint the browser extension
// posts captured media to. Requests are acknowledged immediately and
// handed to the session queue.
package bridge
