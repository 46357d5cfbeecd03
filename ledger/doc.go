/*
Package ledger is the host that runs contracts.

Every state changing request is processed at a new height on top of a cache
wrap of the store. The cache is written only when the request succeeds, so
a failed request leaves no trace. Messages returned by a contract are
dispatched in order, each in its own nested cache wrap, and their outcome
is delivered back to the contract when the message asks for a reply.

Contract implementations are registered by name. Stored code references an
implementation by that name and its checksum is derived from it.
*/
package ledger
