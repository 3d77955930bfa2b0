// Package store provides the synchronous key-value persistence slot used to
// mirror the session record. The interface models browser-style storage:
// Get/Set/Remove never return errors to callers; backends that can fail
// (redis) log failures internally and surface misses instead.
package store
