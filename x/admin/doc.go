/*
Package admin guards the mutating operations of a contract.

A contract has a single admin and a mutable flag. The flag can only be
cleared, once a contract is locked it stays locked forever.
*/
package admin
