/*
Package pantheon defines the interfaces and types shared by the revenue
share contract and the ledger that hosts it: storage, addresses, coins,
outbound messages, replies and the contract entry points.

Components never talk to the ledger directly. Each entry point returns a
Response holding the messages the ledger must execute on the contract's
behalf, once the request succeeded.
*/
package pantheon
