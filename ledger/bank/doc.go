/*
Package bank keeps the native token balances of the ledger.

Balances are stored per address as a wallet. Only the ledger moves coins,
contracts request transfers by returning bank messages.
*/
package bank
