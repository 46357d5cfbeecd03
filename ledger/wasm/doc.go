/*
Package wasm is the registry of stored code and contract instances.

Code is stored under an incremental code id and references a contract
implementation by name. Contract instances are addressed either by the
classic, sequence based derivation or by the deterministic derivation from
the code checksum, the creator and a salt. The registry also keeps the
rewards metadata of every contract.
*/
package wasm
