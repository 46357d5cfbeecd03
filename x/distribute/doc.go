/*
Package distribute pays out the funds of a contract to its shares.

Rewards credited to a contract are first withdrawn into its balance. The
balance of the native token is then split between the shares. Each payee
receives floor(balance * percentage), so a small leftover may stay in the
contract until the next distribution.
*/
package distribute
