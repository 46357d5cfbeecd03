/*
Package rewards tracks the rewards earned by contracts.

Rewards are credited to the rewards address declared in the contract
metadata and kept as records until the rewards address withdraws them.
Withdrawn coins are issued by the ledger.
*/
package rewards
