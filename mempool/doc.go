// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mempool provides the transaction pool: the staging area between
network ingress and the block producer.

Candidate transactions arriving from peers or local clients are admitted
into one of four queues.  Bundled transactions wait for the periodic bundle
job to verify them in batches; everything else is verified on arrival and
placed into the queued or multisignature queue depending on its
classification.  When the block producer asks to fill the pool, ready
multisignature transactions and queued transactions are re-verified,
applied to the unconfirmed account state and promoted into the unconfirmed
queue, from which the next block is assembled.  A periodic expiry job drops
transactions that outlived their type-dependent time-to-live, and a chain
rewind sends the unconfirmed set back to the queued queue through
UndoUnconfirmedList.

The pool does not validate signatures or touch persistent state itself.
Account lookup, transaction logic, unconfirmed state mutation and sync
status are consumed through the narrow collaborator interfaces declared in
this package and wired in via Config and Bind, which keeps the pool fully
testable in isolation.

All exported methods are safe for concurrent access.  Iterating operations
snapshot a queue first and then work id by id, tolerating entries that a
concurrent operation removed in the meantime.
*/
package mempool
